package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/shuleni/core"
	"github.com/trezcool/shuleni/core/gradebook"
)

type gradebookRepository struct {
	db *DB
}

var _ gradebook.Repository = (*gradebookRepository)(nil)

func NewGradebookRepository(db *DB) *gradebookRepository {
	return &gradebookRepository{db: db}
}

func (repo *gradebookRepository) CheckActivityUniqueness(_ context.Context, classID, name string, excluded ...gradebook.Activity) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, act := range repo.db.activities {
		if activityExcluded(*act, excluded) {
			continue
		}
		if act.ClassID == classID && strings.EqualFold(act.Name, name) {
			return gradebook.ErrActivityExists
		}
	}
	return nil
}

func activityExcluded(act gradebook.Activity, excluded []gradebook.Activity) bool {
	for _, ex := range excluded {
		if act.ID == ex.ID {
			return true
		}
	}
	return false
}

func (repo *gradebookRepository) CreateActivity(_ context.Context, act gradebook.Activity) (gradebook.Activity, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	act.ID = uuid.New().String()
	repo.db.activities[act.ID] = &act
	return act, nil
}

func (repo *gradebookRepository) GetActivityByID(_ context.Context, id string) (gradebook.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if act, ok := repo.db.activities[id]; ok {
		return *act, nil
	}
	return gradebook.Activity{}, gradebook.ErrActivityNotFound
}

func (repo *gradebookRepository) QueryActivities(_ context.Context, classID string, _ []core.DBOrdering) ([]gradebook.Activity, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	activities := make([]gradebook.Activity, 0, len(repo.db.activities))
	for _, act := range repo.db.activities {
		if classID != "" && act.ClassID != classID {
			continue
		}
		activities = append(activities, *act)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].CreatedAt.After(activities[j].CreatedAt) })
	return activities, nil
}

func (repo *gradebookRepository) DeleteActivitiesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.activities, id)
		for subID, sub := range repo.db.submissions {
			if sub.ActivityID == id {
				delete(repo.db.submissions, subID)
			}
		}
	}
	return nil
}

func (repo *gradebookRepository) CreateSubmission(_ context.Context, sub gradebook.Submission) (gradebook.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.submissions {
		if existing.ActivityID == sub.ActivityID && existing.StudentID == sub.StudentID {
			return gradebook.Submission{}, gradebook.ErrSubmissionExists
		}
	}

	sub.ID = uuid.New().String()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *gradebookRepository) QuerySubmissions(_ context.Context, activityID string) ([]gradebook.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]gradebook.Submission, 0, len(repo.db.submissions))
	for _, sub := range repo.db.submissions {
		if sub.ActivityID == activityID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.Before(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *gradebookRepository) QueryClassScores(_ context.Context, classID string) ([]gradebook.Score, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	scores := make([]gradebook.Score, 0, len(repo.db.submissions))
	for _, sub := range repo.db.submissions {
		act, ok := repo.db.activities[sub.ActivityID]
		if !ok || act.ClassID != classID {
			continue
		}
		scores = append(scores, gradebook.Score{Obtained: sub.ObtainedMarks, Total: act.TotalMarks})
	}
	return scores, nil
}
