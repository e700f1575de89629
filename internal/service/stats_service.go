package service

import (
	"context"
	"sort"
	"time"

	"hifz_tracker/internal/config"
	"hifz_tracker/internal/coverage"
	"hifz_tracker/internal/middleware"
	"hifz_tracker/internal/model"
	"hifz_tracker/internal/period"
	"hifz_tracker/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// StatsService is the sole entry point for derived figures. Every
// number is recomputed from raw logs on each call; nothing derived is
// cached between calls.
type StatsService interface {
	GetStatistics(ctx context.Context, callerID, learnerID uuid.UUID, scope period.Scope, params period.Params, now time.Time) (*model.StatisticsReport, error)
	GetProfile(ctx context.Context, callerID, learnerID uuid.UUID, now time.Time) (*model.ProfileResponse, error)
}

type statsService struct {
	db             *gorm.DB
	progRepo       repository.ProgressRepository
	masteryRepo    repository.MasteryRepository
	commentRepo    repository.CommentRepository
	sessionRepo    repository.SessionRepository
	attendanceRepo repository.AttendanceRepository
	activityRepo   repository.ActivityRepository
	access         AccessService
	cfg            *config.Config
}

func NewStatsService(
	db *gorm.DB,
	progRepo repository.ProgressRepository,
	masteryRepo repository.MasteryRepository,
	commentRepo repository.CommentRepository,
	sessionRepo repository.SessionRepository,
	attendanceRepo repository.AttendanceRepository,
	activityRepo repository.ActivityRepository,
	access AccessService,
	cfg *config.Config,
) StatsService {
	return &statsService{
		db:             db,
		progRepo:       progRepo,
		masteryRepo:    masteryRepo,
		commentRepo:    commentRepo,
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		activityRepo:   activityRepo,
		access:         access,
		cfg:            cfg,
	}
}

// learnerSnapshot is the raw-record snapshot one request derives all
// its views from. Fetched once, concurrently.
type learnerSnapshot struct {
	entries    []*model.ProgressEntry
	records    []*model.MasteryRecord
	daily      []*model.DailyActivityCompletion
	objectives []*model.WeeklyObjective
	objComps   []*model.WeeklyObjectiveCompletion
	attendance []*model.AttendanceRecord
	cycles     []*model.CompletionCycle
}

func (s *statsService) fetchSnapshot(ctx context.Context, learnerID uuid.UUID) (*learnerSnapshot, error) {
	snap := &learnerSnapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.entries, err = s.progRepo.FindByUser(gctx, s.db, learnerID, repository.ProgressFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		snap.records, err = s.masteryRepo.FindByUser(gctx, s.db, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.daily, err = s.activityRepo.FindDailyByUser(gctx, s.db, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.objectives, err = s.activityRepo.ListObjectives(gctx, s.db, learnerID, true)
		return err
	})
	g.Go(func() error {
		var err error
		snap.objComps, err = s.activityRepo.FindObjectiveCompletions(gctx, s.db, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.attendance, err = s.attendanceRepo.FindByUser(gctx, s.db, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.cycles, err = s.activityRepo.ListCycles(gctx, s.db, learnerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// earliestActivity is the date of the learner's oldest attendance or
// daily completion, used as the all-time period start and the adoption
// clamp. Zero when no record exists.
func earliestActivity(snap *learnerSnapshot) time.Time {
	var earliest time.Time
	consider := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	for _, a := range snap.attendance {
		if a.Session != nil {
			consider(a.Session.Date)
		}
	}
	for _, d := range snap.daily {
		consider(d.Date)
	}
	return earliest
}

func (s *statsService) GetStatistics(ctx context.Context, callerID, learnerID uuid.UUID, scope period.Scope, params period.Params, now time.Time) (*model.StatisticsReport, error) {
	logger := middleware.GetLogger(ctx).With("learner_id", learnerID, "scope", scope)

	if !period.ValidScopes[scope] {
		return nil, model.NewAppError("INVALID_SCOPE", "Scope must be one of day, week, month, year, all.", "scope", model.ErrInvalidInput)
	}
	if err := s.access.RequireVisibility(ctx, callerID, learnerID); err != nil {
		return nil, err
	}

	snap, err := s.fetchSnapshot(ctx, learnerID)
	if err != nil {
		logger.Error("Failed to fetch learner snapshot", "error", err)
		return nil, err
	}

	earliest := earliestActivity(snap)
	start, end, err := period.Bounds(scope, params, now, earliest)
	if err != nil {
		return nil, model.NewAppError("INVALID_SCOPE", err.Error(), "scope", model.ErrInvalidInput)
	}
	prevStart, prevEnd, err := period.PreviousBounds(scope, params, now, earliest)
	if err != nil {
		return nil, model.NewAppError("INVALID_SCOPE", err.Error(), "scope", model.ErrInvalidInput)
	}

	windowEntries := filterEntries(snap.entries, start, end)
	covStats := coverage.Compute(coverage.Build(windowEntries))

	// Mastery reconciliation is cumulative: it always compares against
	// full memorization coverage, not the selected window.
	memEntries := filterProgram(snap.entries, model.ProgramMemorization)
	mastery := reconcileMastery(snap.records, coverage.Build(memEntries))

	report := &model.StatisticsReport{
		Scope:       string(scope),
		PeriodStart: start,
		PeriodEnd:   end,

		TotalVersesCovered: covStats.TotalVerses,
		ChaptersCompleted:  covStats.ChaptersComplete,
		ChaptersInProgress: covStats.ChaptersInProgress,
		Pages:              covStats.Pages,

		Mastery: mastery,

		DailyStreak:     dailyStreak(snap.daily, now),
		ObjectiveStreak: objectiveStreak(snap.objectives, snap.objComps, now),
		AttendanceRate:  attendanceRate(snap.attendance, start, end),
		SubmissionRate:  submissionRate(filterProgram(snap.entries, model.ProgramMemorization), start, end),

		CompletedActivities: countCompletions(snap.daily, start, end),
		Evolution:           s.evolutionSeries(snap, now),
		Cycles:              cycleStats(snap.cycles, now),
	}
	report.ActivityTrend = computeTrend(report.CompletedActivities, countCompletions(snap.daily, prevStart, prevEnd))

	return report, nil
}

func (s *statsService) GetProfile(ctx context.Context, callerID, learnerID uuid.UUID, now time.Time) (*model.ProfileResponse, error) {
	logger := middleware.GetLogger(ctx).With("learner_id", learnerID)

	if err := s.access.RequireVisibility(ctx, callerID, learnerID); err != nil {
		return nil, err
	}

	snap, err := s.fetchSnapshot(ctx, learnerID)
	if err != nil {
		logger.Error("Failed to fetch learner snapshot", "error", err)
		return nil, err
	}

	limit := s.cfg.App.RecentLimit
	comments, err := s.commentRepo.FindRecentByUser(ctx, s.db, learnerID, limit)
	if err != nil {
		logger.Error("Failed to fetch recent comments", "error", err)
		return nil, err
	}

	// Session numbers are per group; resolve them for the groups the
	// recent comments touch.
	sessionNumbers := make(map[uuid.UUID]int)
	seenGroups := make(map[uuid.UUID]bool)
	for _, c := range comments {
		if c.Session == nil || seenGroups[c.Session.GroupID] {
			continue
		}
		seenGroups[c.Session.GroupID] = true
		sessions, err := s.sessionRepo.ListByGroup(ctx, s.db, c.Session.GroupID)
		if err != nil {
			return nil, err
		}
		for i, sess := range sessions {
			sessionNumbers[sess.SessionID] = i + 1
		}
	}

	memEntries := filterProgram(snap.entries, model.ProgramMemorization)
	mastery := reconcileMastery(snap.records, coverage.Build(memEntries))

	earliest := earliestActivity(snap)
	start, end, err := period.Bounds(period.ScopeAll, period.Params{}, now, earliest)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{
		UserID:            learnerID,
		Mastery:           mastery,
		DailyStreak:       dailyStreak(snap.daily, now),
		AttendanceRate:    attendanceRate(snap.attendance, start, end),
		RecentRecitations: commentViews(comments, sessionNumbers, true),
		RecentValidations: recentValidations(snap.records, limit),
	}, nil
}

// evolutionSeries re-runs the weekly aggregation for each of the last
// N Sunday-anchored weeks ending at now.
func (s *statsService) evolutionSeries(snap *learnerSnapshot, now time.Time) []model.EvolutionPoint {
	weeks := s.cfg.App.EvolutionWeeks
	series := make([]model.EvolutionPoint, 0, weeks)
	currentWeek := period.WeekStart(now)
	for i := weeks - 1; i >= 0; i-- {
		weekStart := currentWeek.AddDate(0, 0, -7*i)
		weekEnd := weekStart.AddDate(0, 0, 7)
		weekEntries := filterEntries(snap.entries, weekStart, weekEnd)
		series = append(series, model.EvolutionPoint{
			WeekStart:     weekStart,
			ISOWeek:       period.ISOWeek(weekStart),
			VersesCovered: coverage.Build(weekEntries).TotalVerses(),
			Completions:   countCompletions(snap.daily, weekStart, weekEnd),
		})
	}
	return series
}

func filterEntries(entries []*model.ProgressEntry, start, end time.Time) []*model.ProgressEntry {
	var out []*model.ProgressEntry
	for _, e := range entries {
		if !e.EntryDate.Before(start) && e.EntryDate.Before(end) {
			out = append(out, e)
		}
	}
	return out
}

func filterProgram(entries []*model.ProgressEntry, program model.Program) []*model.ProgressEntry {
	var out []*model.ProgressEntry
	for _, e := range entries {
		if e.Program == program {
			out = append(out, e)
		}
	}
	return out
}

// dateKey normalizes a time to its calendar date. Stored dates and
// "now" may carry different locations, so streak lookups must never
// compare time.Time values directly.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// dailyStreak counts consecutive calendar days with at least one
// completed activity, walking backward from today, or from yesterday
// when today has no completion yet.
func dailyStreak(completions []*model.DailyActivityCompletion, now time.Time) int {
	days := make(map[string]bool)
	for _, c := range completions {
		if c.Completed {
			days[dateKey(c.Date)] = true
		}
	}
	if len(days) == 0 {
		return 0
	}

	cursor := period.Midnight(now)
	if !days[dateKey(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for days[dateKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// objectiveStreak counts consecutive Sunday-anchored weeks in which the
// number of distinct completed objectives equals the learner's current
// count of active objectives. Judging past weeks against the present
// objective set is intentional.
func objectiveStreak(objectives []*model.WeeklyObjective, completions []*model.WeeklyObjectiveCompletion, now time.Time) int {
	active := 0
	for _, o := range objectives {
		if o.Active {
			active++
		}
	}
	if active == 0 {
		return 0
	}

	perWeek := make(map[string]map[uuid.UUID]bool)
	for _, c := range completions {
		if !c.Completed {
			continue
		}
		week := dateKey(period.WeekStart(c.WeekStart))
		if perWeek[week] == nil {
			perWeek[week] = make(map[uuid.UUID]bool)
		}
		perWeek[week][c.ObjectiveID] = true
	}

	// A week is full only when the distinct completed count equals the
	// current active count. A stale completion of a since-removed
	// objective pushes the count past active and unmakes the week.
	fullWeek := func(week time.Time) bool { return len(perWeek[dateKey(week)]) == active }

	cursor := period.WeekStart(now)
	if !fullWeek(cursor) {
		cursor = cursor.AddDate(0, 0, -7)
	}
	streak := 0
	for fullWeek(cursor) {
		streak++
		cursor = cursor.AddDate(0, 0, -7)
	}
	return streak
}

// attendanceRate is activeWeeks / totalWeeksInPeriod, where a week is
// active when any of its sessions has a present mark. The denominator
// never extends before the learner's first attendance record (adoption
// clamp).
func attendanceRate(records []*model.AttendanceRecord, start, end time.Time) float64 {
	var firstRecord time.Time
	activeWeeks := make(map[time.Time]bool)
	for _, r := range records {
		if r.Session == nil {
			continue
		}
		date := r.Session.Date
		if firstRecord.IsZero() || date.Before(firstRecord) {
			firstRecord = date
		}
		if r.Present && !date.Before(start) && date.Before(end) {
			activeWeeks[period.WeekStart(date)] = true
		}
	}
	if firstRecord.IsZero() {
		return 0
	}

	effectiveStart := start
	if firstRecord.After(start) {
		effectiveStart = period.WeekStart(firstRecord)
	}
	totalWeeks := period.WeeksIn(effectiveStart, end)
	if totalWeeks == 0 {
		return 0
	}
	return float64(len(activeWeeks)) / float64(totalWeeks)
}

// submissionRate is the share of weeks in the period with at least one
// memorization entry, keyed by (ISO year, ISO week) for the numerator.
func submissionRate(entries []*model.ProgressEntry, start, end time.Time) float64 {
	totalWeeks := period.WeeksIn(start, end)
	if totalWeeks == 0 {
		return 0
	}

	type yearWeek struct{ year, week int }
	weeks := make(map[yearWeek]bool)
	for _, e := range entries {
		if !e.EntryDate.Before(start) && e.EntryDate.Before(end) {
			y, w := period.ISOYearWeek(e.EntryDate)
			weeks[yearWeek{y, w}] = true
		}
	}
	return float64(len(weeks)) / float64(totalWeeks)
}

func countCompletions(completions []*model.DailyActivityCompletion, start, end time.Time) int {
	count := 0
	for _, c := range completions {
		if c.Completed && !c.Date.Before(start) && c.Date.Before(end) {
			count++
		}
	}
	return count
}

// computeTrend classifies current vs previous by strict inequality.
// The percentage delta is defined as 0 whenever previous is 0,
// regardless of current.
func computeTrend(current, previous int) model.Trend {
	trend := model.Trend{Direction: model.TrendStable, Current: current, Previous: previous}
	switch {
	case current > previous:
		trend.Direction = model.TrendUp
	case current < previous:
		trend.Direction = model.TrendDown
	}
	if previous != 0 {
		trend.DeltaPct = float64(current-previous) / float64(previous) * 100
	}
	return trend
}

// cycleStats reports, per cycle type, the days since the most recent
// full pass and the mean days-to-complete over all but the most recent
// cycle.
func cycleStats(cycles []*model.CompletionCycle, now time.Time) map[model.CycleType]model.CycleStats {
	byType := make(map[model.CycleType][]*model.CompletionCycle)
	for _, c := range cycles {
		byType[c.Type] = append(byType[c.Type], c)
	}

	out := make(map[model.CycleType]model.CycleStats, len(byType))
	for typ, list := range byType {
		sort.Slice(list, func(i, j int) bool { return list[i].CompletedAt.Before(list[j].CompletedAt) })
		stats := model.CycleStats{Count: len(list)}

		last := list[len(list)-1]
		daysSince := int(now.Sub(last.CompletedAt).Hours() / 24)
		stats.DaysSinceLast = &daysSince

		if len(list) > 1 {
			sum := 0
			for _, c := range list[:len(list)-1] {
				sum += c.Days
			}
			avg := float64(sum) / float64(len(list)-1)
			stats.AvgDays = &avg
		}
		out[typ] = stats
	}
	return out
}

// recentValidations lists the most recently validated chapters.
func recentValidations(records []*model.MasteryRecord, limit int) []model.ChapterStatusView {
	var validated []*model.MasteryRecord
	for _, r := range records {
		if r.Status.Mastered() && r.ValidatedAt != nil {
			validated = append(validated, r)
		}
	}
	sort.Slice(validated, func(i, j int) bool {
		return validated[i].ValidatedAt.After(*validated[j].ValidatedAt)
	})
	if len(validated) > limit {
		validated = validated[:limit]
	}

	views := make([]model.ChapterStatusView, 0, len(validated))
	for _, r := range validated {
		views = append(views, model.ChapterStatusView{
			Chapter:        r.Chapter,
			Status:         r.Status,
			ValidationWeek: r.ValidationWeek,
			ValidatedAt:    r.ValidatedAt,
		})
	}
	return views
}
