package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"quizarena_backend/internal/config"
	"quizarena_backend/internal/model"
	"quizarena_backend/internal/repository"
	"quizarena_backend/internal/util"
	"quizarena_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StatsService derives per-user statistics from answer history. Reports
// are cached in redis and invalidated when an attempt completes.
type StatsService struct {
	StatsRepo *repository.StatsRepository
	Redis     *redis.Client
	CacheTTL  time.Duration
}

func NewStatsService(statsRepo *repository.StatsRepository, redisClient *redis.Client, cfg *config.Config) *StatsService {
	return &StatsService{
		StatsRepo: statsRepo,
		Redis:     redisClient,
		CacheTTL:  time.Duration(cfg.Stats.CacheTTLSeconds) * time.Second,
	}
}

func errorStatsKey(userID uint) string {
	return fmt.Sprintf("stats:errors:%d", userID)
}

func historyStatsKey(userID uint) string {
	return fmt.Sprintf("stats:history:%d", userID)
}

// ErrorStats builds the full error report: overall accuracy, category
// and topic breakdowns ordered worst-first, the answer slot
// distribution and per-topic accuracy.
func (s *StatsService) ErrorStats(ctx context.Context, userID uint) (*model.ErrorStatsReport, error) {
	var cached model.ErrorStatsReport
	if s.readCache(ctx, errorStatsKey(userID), &cached) {
		return &cached, nil
	}

	overall, err := s.StatsRepo.Overall(userID)
	if err != nil {
		return nil, err
	}
	categoryRows, err := s.StatsRepo.ErrorsByCategory(userID)
	if err != nil {
		return nil, err
	}
	topicRows, err := s.StatsRepo.ErrorsByTopic(userID)
	if err != nil {
		return nil, err
	}
	slots, err := s.StatsRepo.SelectedSlotCounts(userID)
	if err != nil {
		return nil, err
	}
	keys, err := s.StatsRepo.SelectedKeyCounts(userID)
	if err != nil {
		return nil, err
	}

	report := &model.ErrorStatsReport{
		Overall:            overall,
		Categories:         buildBreakdown(categoryRows),
		Topics:             buildBreakdown(topicRows),
		AnswerDistribution: buildDistribution(slots, keys),
		TopicAccuracy:      buildTopicAccuracy(topicRows),
	}
	s.writeCache(ctx, errorStatsKey(userID), report)
	return report, nil
}

// History summarises completed attempts overall and per quiz type and
// difficulty.
func (s *StatsService) History(ctx context.Context, userID uint) (*model.HistorySummary, error) {
	var cached model.HistorySummary
	if s.readCache(ctx, historyStatsKey(userID), &cached) {
		return &cached, nil
	}

	summary, err := s.StatsRepo.HistoryOverall(userID, util.PassingPercentage)
	if err != nil {
		return nil, err
	}
	summary.ByQuizType, err = s.StatsRepo.HistoryByQuizType(userID)
	if err != nil {
		return nil, err
	}
	summary.ByDifficulty, err = s.StatsRepo.HistoryByDifficulty(userID)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, historyStatsKey(userID), &summary)
	return &summary, nil
}

// InvalidateCache drops the user's cached reports. Called after an
// attempt completes.
func (s *StatsService) InvalidateCache(userID uint) {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Redis.Del(ctx, errorStatsKey(userID), historyStatsKey(userID)).Err(); err != nil {
		logger.Log.Warn("stats cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// readCache is best-effort: a redis miss or fault falls through to the
// database.
func (s *StatsService) readCache(ctx context.Context, key string, out interface{}) bool {
	if s.Redis == nil {
		return false
	}
	raw, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *StatsService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, raw, s.CacheTTL).Err(); err != nil {
		logger.Log.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// buildBreakdown renders aggregation rows into the labels/datasets
// shape. Rows arrive already ordered by descending error count.
func buildBreakdown(rows []repository.GroupRow) model.ErrorBreakdown {
	breakdown := model.ErrorBreakdown{
		Labels: make([]string, 0, len(rows)),
		Datasets: model.BreakdownDatasets{
			TotalErrors:        make([]int, 0, len(rows)),
			ErrorPercentages:   make([]float64, 0, len(rows)),
			AverageTimeSeconds: make([]float64, 0, len(rows)),
		},
	}
	for _, row := range rows {
		pct := 0.0
		if row.Total > 0 {
			pct = 100 * float64(row.Errors) / float64(row.Total)
		}
		breakdown.Labels = append(breakdown.Labels, row.Label)
		breakdown.Datasets.TotalErrors = append(breakdown.Datasets.TotalErrors, row.Errors)
		breakdown.Datasets.ErrorPercentages = append(breakdown.Datasets.ErrorPercentages, pct)
		breakdown.Datasets.AverageTimeSeconds = append(breakdown.Datasets.AverageTimeSeconds, row.AvgTime)
	}
	return breakdown
}

// buildDistribution merges choice-slot counts with key-answer counts.
// Slots within the key alphabet share its letters as labels and lead
// the output; any remaining labels follow in numeric order.
func buildDistribution(slots map[int]int, keys map[string]int) model.AnswerDistribution {
	merged := make(map[string]int)
	for slot, count := range slots {
		merged[slotLabel(slot)] += count
	}
	for key, count := range keys {
		merged[key] += count
	}

	dist := model.AnswerDistribution{Labels: []string{}}
	dist.Datasets.Counts = []int{}
	for i := 0; i < len(model.KeyChoices); i++ {
		label := string(model.KeyChoices[i])
		if count, ok := merged[label]; ok {
			dist.Labels = append(dist.Labels, label)
			dist.Datasets.Counts = append(dist.Datasets.Counts, count)
			delete(merged, label)
		}
	}
	rest := make([]string, 0, len(merged))
	for label := range merged {
		rest = append(rest, label)
	}
	sort.Slice(rest, func(i, j int) bool {
		a, aerr := strconv.Atoi(rest[i])
		b, berr := strconv.Atoi(rest[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return rest[i] < rest[j]
	})
	for _, label := range rest {
		dist.Labels = append(dist.Labels, label)
		dist.Datasets.Counts = append(dist.Datasets.Counts, merged[label])
	}
	return dist
}

func slotLabel(slot int) string {
	if slot >= 1 && slot <= len(model.KeyChoices) {
		return string(model.KeyChoices[slot-1])
	}
	return fmt.Sprintf("%d", slot)
}

func buildTopicAccuracy(rows []repository.GroupRow) model.TopicAccuracy {
	accuracy := model.TopicAccuracy{Labels: make([]string, 0, len(rows))}
	accuracy.Datasets.Correct = make([]int, 0, len(rows))
	accuracy.Datasets.Incorrect = make([]int, 0, len(rows))
	accuracy.Datasets.AccuracyPercentage = make([]float64, 0, len(rows))
	for _, row := range rows {
		pct := 0.0
		if row.Total > 0 {
			pct = 100 * float64(row.Correct) / float64(row.Total)
		}
		accuracy.Labels = append(accuracy.Labels, row.Label)
		accuracy.Datasets.Correct = append(accuracy.Datasets.Correct, row.Correct)
		accuracy.Datasets.Incorrect = append(accuracy.Datasets.Incorrect, row.Errors)
		accuracy.Datasets.AccuracyPercentage = append(accuracy.Datasets.AccuracyPercentage, pct)
	}
	return accuracy
}
