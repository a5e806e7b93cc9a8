package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shuleni/core/attendance"
	"github.com/trezcool/shuleni/core/user"
	testutil "github.com/trezcool/shuleni/tests"
)

func Test_attendanceApi_record(t *testing.T) {
	db.Reset()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "study1", "study@test.cd", "LePass123", []string{user.RoleStudent}, true)

	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	cls := testutil.CreateClass(t, schoolRepo, "Form 1A", prog.ID, "")

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	body := marchallObj(t, map[string]interface{}{
		"class_id":   cls.ID,
		"student_id": student.ID,
		"date":       day.Format(time.RFC3339),
		"present":    true,
	})

	tests := []httpTest{
		{
			name: "student cannot record attendance", token: getToken(t, student),
			body:     body,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "teacher records a day", token: getToken(t, teacher),
			body:     body,
			wantCode: http.StatusCreated,
		},
		{
			name: "double recording conflicts", token: getToken(t, teacher),
			body:     body,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"date": attendance.ErrRecordExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var r attendance.Record
				if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
					t.Fatalf("unmarshalling record: %v", err)
				}
				if r.RecordedBy != teacher.ID {
					t.Errorf("RecordedBy = %q; want %q", r.RecordedBy, teacher.ID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_recordSheet(t *testing.T) {
	db.Reset()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	token := getToken(t, teacher)

	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	cls := testutil.CreateClass(t, schoolRepo, "Form 1A", prog.ID, "")

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	body := marchallObj(t, map[string]interface{}{
		"class_id": cls.ID,
		"date":     day.Format(time.RFC3339),
		"entries": []map[string]interface{}{
			{"student_id": "student-1", "present": true},
			{"student_id": "student-2", "present": false},
			{"student_id": "student-3", "present": true},
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/sheet", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record sheet: code = %v; body %s", rec.Code, rec.Body.String())
	}
	var records []attendance.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("unmarshalling records: %v", err)
	}
	assert.Len(t, records, 3)

	// the sheet as a whole cannot be recorded twice
	req, rec = newAuthRequest(http.MethodPost, "/v1/attendance/sheet", token, body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// records are queryable
	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance?class_id="+cls.ID, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query: code = %v; body %s", rec.Code, rec.Body.String())
	}
	records = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("unmarshalling records: %v", err)
	}
	assert.Len(t, records, 3)
}

func Test_attendanceApi_weeklyStats(t *testing.T) {
	db.Reset()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	token := getToken(t, teacher)

	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	cls := testutil.CreateClass(t, schoolRepo, "Form 1A", prog.ID, "")

	// week 2 of 2026: 1 of 2 present; week 3: 1 of 1 present
	mon := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tue := mon.AddDate(0, 0, 1)
	nextMon := mon.AddDate(0, 0, 7)
	testutil.CreateAttendanceRecord(t, attRepo, cls.ID, "student-1", mon, true)
	testutil.CreateAttendanceRecord(t, attRepo, cls.ID, "student-1", tue, false)
	testutil.CreateAttendanceRecord(t, attRepo, cls.ID, "student-1", nextMon, true)

	req, rec := newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/attendance/weekly", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("weekly stats: code = %v; body %s", rec.Code, rec.Body.String())
	}

	var stats []attendance.WeekStat
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshalling stats: %v", err)
	}
	if assert.Len(t, stats, 2) {
		assert.Equal(t, attendance.WeekStat{Year: 2026, Week: 2, Recorded: 2, Present: 1, Percentage: 50}, stats[0])
		assert.Equal(t, attendance.WeekStat{Year: 2026, Week: 3, Recorded: 1, Present: 1, Percentage: 100}, stats[1])
	}

	// a malformed range is a validation error
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/attendance/weekly?date_from=lol", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
