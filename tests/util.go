// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shuleni/core/attendance"
	"github.com/trezcool/shuleni/core/gradebook"
	"github.com/trezcool/shuleni/core/school"
	"github.com/trezcool/shuleni/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser(): %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func CreateProgram(t *testing.T, repo school.Repository, name string) school.Program {
	t.Helper()

	now := time.Now().UTC()
	prog, err := repo.CreateProgram(context.Background(), school.Program{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateProgram(): %v", err)
	}
	return prog
}

func CreateClass(t *testing.T, repo school.Repository, name, programID, teacherID string) school.Class {
	t.Helper()

	now := time.Now().UTC()
	cls := school.Class{
		ID:        uuid.New().String(),
		Name:      name,
		ProgramID: programID,
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cal := school.CalendarLink{
		ID:        uuid.New().String(),
		ClassID:   cls.ID,
		URL:       "http://localhost:3000/calendar/" + cls.ID,
		CreatedAt: now,
	}
	cls, err := repo.CreateClassWithCalendar(context.Background(), cls, cal)
	if err != nil {
		t.Fatalf("CreateClass(): %v", err)
	}
	return cls
}

func CreateTeacher(t *testing.T, repo school.Repository, userID, staffNo string) school.Teacher {
	t.Helper()

	now := time.Now().UTC()
	tchr, err := repo.CreateTeacher(context.Background(), school.Teacher{
		UserID:    userID,
		StaffNo:   staffNo,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher(): %v", err)
	}
	return tchr
}

func CreateActivity(t *testing.T, repo gradebook.Repository, classID, name string, totalMarks float64) gradebook.Activity {
	t.Helper()

	now := time.Now().UTC()
	act, err := repo.CreateActivity(context.Background(), gradebook.Activity{
		ClassID:    classID,
		Name:       name,
		TotalMarks: totalMarks,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateActivity(): %v", err)
	}
	return act
}

func CreateSubmission(
	t *testing.T,
	repo gradebook.Repository,
	activityID, studentID string,
	obtained *float64,
) gradebook.Submission {
	t.Helper()

	now := time.Now().UTC()
	sub := gradebook.Submission{
		ActivityID:    activityID,
		StudentID:     studentID,
		ObtainedMarks: obtained,
		SubmittedAt:   now,
	}
	if obtained != nil {
		sub.GradedAt = now
	}
	sub, err := repo.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission(): %v", err)
	}
	return sub
}

func CreateAttendanceRecord(
	t *testing.T,
	repo attendance.Repository,
	classID, studentID string,
	date time.Time,
	present bool,
) attendance.Record {
	t.Helper()

	rec, err := repo.CreateRecord(context.Background(), attendance.Record{
		ClassID:   classID,
		StudentID: studentID,
		Date:      date.UTC().Truncate(24 * time.Hour),
		Present:   present,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAttendanceRecord(): %v", err)
	}
	return rec
}

func FloatPtr(f float64) *float64 { return &f }
