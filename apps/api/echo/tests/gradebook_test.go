package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shuleni/core/gradebook"
	"github.com/trezcool/shuleni/core/user"
	testutil "github.com/trezcool/shuleni/tests"
)

func Test_gradebookApi_grade(t *testing.T) {
	db.Reset()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "study1", "study@test.cd", "LePass123", []string{user.RoleStudent}, true)

	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	cls := testutil.CreateClass(t, schoolRepo, "Form 1A", prog.ID, "")
	act := testutil.CreateActivity(t, gradeRepo, cls.ID, "Quiz 1", 100)

	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)

	body := func(activityID, studentID string, obtained float64) []byte {
		return marchallObj(t, map[string]interface{}{
			"activity_id":    activityID,
			"student_id":     studentID,
			"obtained_marks": obtained,
		})
	}

	tests := []httpTest{
		{
			name: "student cannot grade", token: studentToken,
			body:     body(act.ID, student.ID, 50),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "unknown activity is 404", token: teacherToken,
			body:     body("nope", student.ID, 50),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "marks above total are rejected", token: teacherToken,
			body:     body(act.ID, student.ID, 101),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"obtained_marks": "obtained marks cannot exceed the activity's total marks"}),
		},
		{
			name: "teacher grades a submission", token: teacherToken,
			body:     body(act.ID, student.ID, 95),
			wantCode: http.StatusCreated,
		},
		{
			name: "double grading conflicts", token: teacherToken,
			body:     body(act.ID, student.ID, 80),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"student_id": gradebook.ErrSubmissionExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/grades", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var sub gradebook.Submission
				if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
					t.Fatalf("unmarshalling submission: %v", err)
				}
				if sub.GradedBy != teacher.ID {
					t.Errorf("GradedBy = %q; want %q", sub.GradedBy, teacher.ID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradebookApi_classSummary(t *testing.T) {
	db.Reset()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	token := getToken(t, teacher)

	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	cls := testutil.CreateClass(t, schoolRepo, "Form 1A", prog.ID, "")
	empty := testutil.CreateClass(t, schoolRepo, "Form 1B", prog.ID, "")
	act := testutil.CreateActivity(t, gradeRepo, cls.ID, "Quiz 1", 100)

	testutil.CreateSubmission(t, gradeRepo, act.ID, "student-1", testutil.FloatPtr(95))

	getSummary := func(t *testing.T, classID string) gradebook.GradeSummary {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+classID+"/gradebook", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("summary: code = %v; body %s", rec.Code, rec.Body.String())
		}
		var summary gradebook.GradeSummary
		if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
			t.Fatalf("unmarshalling summary: %v", err)
		}
		return summary
	}

	t.Run("single 95% submission", func(t *testing.T) {
		summary := getSummary(t, cls.ID)
		assert.Equal(t, 1, summary.Count)
		assert.InDelta(t, 95, summary.ClassAverage, 0.001)
		assert.InDelta(t, 95, summary.HighestGrade, 0.001)
		assert.InDelta(t, 95, summary.LowestGrade, 0.001)
		assert.Equal(t, gradebook.Distribution{A: 1}, summary.Distribution)
	})

	t.Run("zero submissions keep sentinels", func(t *testing.T) {
		summary := getSummary(t, empty.ID)
		assert.Equal(t, 0, summary.Count)
		assert.InDelta(t, 0, summary.ClassAverage, 0.001)
		assert.InDelta(t, 0, summary.HighestGrade, 0.001)
		assert.InDelta(t, 100, summary.LowestGrade, 0.001)
		assert.Equal(t, gradebook.Distribution{}, summary.Distribution)
	})

	t.Run("summary is memoized per requester", func(t *testing.T) {
		before := getSummary(t, cls.ID)

		// a new grade does not show up while the cache entry is fresh
		testutil.CreateSubmission(t, gradeRepo, act.ID, "student-2", testutil.FloatPtr(55))
		after := getSummary(t, cls.ID)
		assert.Equal(t, before, after)

		// another requester computes their own entry and sees it
		other := testutil.CreateUser(t, usrRepo, "Other", "teach2", "teach2@test.cd", "LePass123", []string{user.RoleTeacher}, true)
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/gradebook", getToken(t, other))
		app.ServeHTTP(rec, req)
		var fresh gradebook.GradeSummary
		if err := json.Unmarshal(rec.Body.Bytes(), &fresh); err != nil {
			t.Fatalf("unmarshalling summary: %v", err)
		}
		assert.Equal(t, 2, fresh.Count)
		assert.Equal(t, gradebook.Distribution{A: 1, F: 1}, fresh.Distribution)
	})
}

func Test_gradebookApi_createActivity(t *testing.T) {
	db.Reset()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	token := getToken(t, teacher)

	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	cls := testutil.CreateClass(t, schoolRepo, "Form 1A", prog.ID, "")

	body := func(name string, total float64) []byte {
		return marchallObj(t, map[string]interface{}{
			"class_id":    cls.ID,
			"name":        name,
			"total_marks": total,
		})
	}

	tests := []httpTest{
		{
			name: "total marks must be positive",
			body: body("Quiz 1", 0), wantCode: http.StatusBadRequest,
		},
		{
			name: "create",
			body: body("Quiz 1", 20), wantCode: http.StatusCreated,
		},
		{
			name: "duplicate name in class conflicts",
			body: body("Quiz 1", 40), wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"name": gradebook.ErrActivityExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/activities", token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
