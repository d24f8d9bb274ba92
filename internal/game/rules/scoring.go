package rules

import "Cruce/internal/game/table"

// IsValidBid 0 表示不叫，总是合法；否则必须严格大于当前叫分且不超过 6
func IsValidBid(bid, currentBid int) bool {
	if bid == 0 {
		return true
	}
	return bid > currentBid && bid <= table.MaxBid
}

// IsBiddingComplete 恰好 total-1 家不叫且已有叫分
func IsBiddingComplete(passed []int, total, highestBid int) bool {
	return len(passed) == total-1 && highestBid > 0
}

// GamePoints 手牌分换算局分（向下取整）
func GamePoints(handPoints int) int {
	if handPoints <= 0 {
		return 0
	}
	return handPoints / table.PointsPerGamePt
}

type HandResult struct {
	TeamScores [2]int `json:"teamScores"`
	GamePoints [2]int `json:"gamePoints"`
	BidMade    bool   `json:"bidMade"`
}

// CalculateHandResult 婚配分并入座位分，按队汇总，再按叫分成败换算局分。
// 成约时仍只得 floor(total/33)，可能少于叫分。
func CalculateHandResult(playerScores, marriageScores [table.SeatCount]int, bid, bidder int) HandResult {
	var res HandResult
	for seat := 0; seat < table.SeatCount; seat++ {
		res.TeamScores[table.TeamOf(seat)] += playerScores[seat] + marriageScores[seat]
	}
	res.GamePoints[0] = GamePoints(res.TeamScores[0])
	res.GamePoints[1] = GamePoints(res.TeamScores[1])

	if bidder < 0 || bidder >= table.SeatCount || bid <= 0 {
		return res
	}
	team := table.TeamOf(bidder)
	res.BidMade = res.TeamScores[team] >= bid*table.PointsPerGamePt
	if !res.BidMade {
		res.GamePoints[team] = -bid
	}
	return res
}
