package services

import (
	"time"

	"gorm.io/gorm"

	"bullpen/internal/config"
	"bullpen/internal/db"
	"bullpen/internal/models"
)

// Reputation actions recorded in the ledger.
const (
	ActionThreadCreate  = "thread_create"
	ActionThreadLiked   = "thread_liked"
	ActionCommentCreate = "comment_create"
	ActionCommentLiked  = "comment_liked"
	ActionThreadDeleted = "thread_deleted"
	ActionDownvoteSpent = "downvote_spent"
)

// Reputation amounts per action.
const (
	RepThreadCreate  = 2
	RepThreadLiked   = 1
	RepCommentCreate = 1
	RepCommentLiked  = 1
	RepThreadDeleted = -5
	RepDownvoteSpent = -1
)

// Daily earn caps: only the first few threads/comments per day earn points.
const (
	DailyThreadLimit  = 3
	DailyCommentLimit = 5
)

// AddReputation records a ledger entry and moves the balance in one
// transaction. The balance update is a single atomic increment, never a
// read-modify-write.
func AddReputation(userID uint, amount int, action string) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		entry := models.ReputationLog{
			UserID: userID,
			Amount: amount,
			Action: action,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("reputation_points", gorm.Expr("GREATEST(reputation_points + ?, 0)", amount)).
			Error
	})
}

// AddReputationAsync awards points without blocking the caller.
func AddReputationAsync(userID uint, amount int, action string) {
	go func() {
		_ = AddReputation(userID, amount, action)
	}()
}

func todayRange() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}

func countTodayActions(userID uint, action string) int64 {
	start, end := todayRange()
	var count int64
	db.DB.Model(&models.ReputationLog{}).
		Where("user_id = ? AND action = ? AND created_at >= ? AND created_at < ?", userID, action, start, end).
		Count(&count)
	return count
}

// CanEarnThreadRep reports whether today's thread quota still earns points.
func CanEarnThreadRep(userID uint) bool {
	return countTodayActions(userID, ActionThreadCreate) < DailyThreadLimit
}

// CanEarnCommentRep reports whether today's comment quota still earns points.
func CanEarnCommentRep(userID uint) bool {
	return countTodayActions(userID, ActionCommentCreate) < DailyCommentLimit
}

// Badge names awarded from fixed thresholds.
const (
	BadgeEarlyAdopter   = "early_adopter"
	BadgeTopContributor = "top_contributor"
	BadgeHelpfulHand    = "helpful_hand"
)

// ComputeBadges derives the badge set for a user. Badges are derived data,
// never stored.
func ComputeBadges(user *models.User, commentCount int64) []string {
	badges := make([]string, 0, 3)
	if user.ID <= config.EarlyAdopterCount {
		badges = append(badges, BadgeEarlyAdopter)
	}
	if user.ReputationPoints >= config.TopContributorRep {
		badges = append(badges, BadgeTopContributor)
	}
	if commentCount >= config.HelpfulHandComments {
		badges = append(badges, BadgeHelpfulHand)
	}
	return badges
}
