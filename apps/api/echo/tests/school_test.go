package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shuleni/core/school"
	"github.com/trezcool/shuleni/core/user"
	testutil "github.com/trezcool/shuleni/tests"
)

func Test_schoolApi_programs(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "LePass123", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "study1", "study@test.cd", "LePass123", []string{user.RoleStudent}, true)

	sciences := testutil.CreateProgram(t, schoolRepo, "Sciences")

	tests := []httpTest{
		{
			name: "student cannot create programs", method: http.MethodPost, path: "/v1/programs",
			token:    getToken(t, student),
			body:     marchallObj(t, map[string]string{"name": "Humanities"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin creates a program", method: http.MethodPost, path: "/v1/programs",
			token:    getToken(t, admin),
			body:     marchallObj(t, map[string]string{"name": "Humanities"}),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate program name conflicts", method: http.MethodPost, path: "/v1/programs",
			token:    getToken(t, admin),
			body:     marchallObj(t, map[string]string{"name": "Sciences"}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"name": school.ErrProgramExists.Error()}),
		},
		{
			name: "any authed user lists programs", method: http.MethodGet, path: "/v1/programs",
			token:    getToken(t, student),
			wantCode: http.StatusOK,
		},
		{
			name: "retrieve", method: http.MethodGet, path: "/v1/programs/" + sciences.ID,
			token:    getToken(t, student),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, sciences),
		},
		{
			name: "retrieve unknown is 404", method: http.MethodGet, path: "/v1/programs/nope",
			token:    getToken(t, student),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
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

func Test_schoolApi_createClass_withCalendar(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "LePass123", []string{user.RoleAdmin}, true)
	prog := testutil.CreateProgram(t, schoolRepo, "Sciences")
	token := getToken(t, admin)

	// create
	body := marchallObj(t, map[string]string{"name": "Form 1A", "program_id": prog.ID})
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create class: code = %v; body %s", rec.Code, rec.Body.String())
	}
	var cls school.Class
	if err := json.Unmarshal(rec.Body.Bytes(), &cls); err != nil {
		t.Fatalf("unmarshalling class: %v", err)
	}

	// the calendar link must exist as part of the same creation
	req, rec = newAuthRequest(http.MethodGet, "/v1/classes/"+cls.ID+"/calendar", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get calendar: code = %v; body %s", rec.Code, rec.Body.String())
	}
	var cal school.CalendarLink
	if err := json.Unmarshal(rec.Body.Bytes(), &cal); err != nil {
		t.Fatalf("unmarshalling calendar: %v", err)
	}
	if cal.ClassID != cls.ID {
		t.Errorf("calendar belongs to %q; want %q", cal.ClassID, cls.ID)
	}
	if cal.URL == "" {
		t.Error("expected a default calendar URL")
	}

	// duplicate class name in same program conflicts
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate class: code = %v; want %v", rec.Code, http.StatusConflict)
	}

	// unknown program is a validation error
	body = marchallObj(t, map[string]string{"name": "Form 9Z", "program_id": "nope"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/classes", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown program: code = %v; want %v", rec.Code, http.StatusBadRequest)
	}
}

func Test_schoolApi_teachers(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "LePass123", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "study1", "study@test.cd", "LePass123", []string{user.RoleStudent}, true)

	body := func(userID, staffNo string) []byte {
		return marchallObj(t, map[string]string{"user_id": userID, "staff_no": staffNo})
	}

	tests := []httpTest{
		{
			name: "teacher cannot manage teachers", token: getToken(t, teacher),
			body:     body(teacher.ID, "stf001"),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin creates a teacher profile", token: getToken(t, admin),
			body:     body(teacher.ID, "stf001"),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate staff number conflicts", token: getToken(t, admin),
			body:     body(teacher.ID, "stf001"),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"staff_no": school.ErrTeacherExists.Error()}),
		},
		{
			name: "profile requires a teacher role", token: getToken(t, admin),
			body:     body(student.ID, "stf002"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"user_id": "this user does not carry a teacher role"}),
		},
		{
			name: "unknown user fails", token: getToken(t, admin),
			body:     body("nope", "stf003"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"user_id": user.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/teachers", tt.token, tt.body)
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
