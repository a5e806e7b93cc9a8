package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shuleni/core/user"
	testutil "github.com/trezcool/shuleni/tests"
)

func Test_userApi_login(t *testing.T) {
	db.Reset()

	usr := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "LePass123", nil, true)
	testutil.CreateUser(t, usrRepo, "Lazy", "lazybones", "lazy@test.cd", "LePass123", nil, false)

	body := func(uname, pwd string) []byte {
		return marchallObj(t, map[string]string{"username": uname, "password": pwd})
	}

	tests := []httpTest{
		{
			name: "empty credentials", body: body("", ""),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: body("ghost", "LePass123"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: body(usr.Username, "nope"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: body("lazybones", "LePass123"),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "login with username", body: body(usr.Username, "LePass123"),
			wantCode: http.StatusOK,
		},
		{
			name: "login with email", body: body(usr.Email, "LePass123"),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var resp struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling token: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_query_permissions(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "LePass123", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "LePass123", []string{user.RoleTeacher}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "study1", "study@test.cd", "LePass123", []string{user.RoleStudent}, true)

	tests := []httpTest{
		{
			name: "anonymous is unauthenticated", path: "/v1/users",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "student lacks manage_users", path: "/v1/users", token: getToken(t, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "teacher lacks manage_users", path: "/v1/users", token: getToken(t, teacher),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin queries all", path: "/v1/users", token: getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallList(t, admin, teacher, student),
		},
		{
			name: "admin queries roles", path: "/v1/users/roles", token: getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, user.Roles),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "LePass123", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "study1", "study@test.cd", "LePass123", []string{user.RoleStudent}, true)

	body := func(name, uname, email string, roles []string) []byte {
		return marchallObj(t, map[string]interface{}{
			"name":             name,
			"username":         uname,
			"email":            email,
			"password":         "LePass#123",
			"password_confirm": "LePass#123",
			"roles":            roles,
		})
	}

	tests := []httpTest{
		{
			name: "student cannot register users", token: getToken(t, student),
			body:     body("New Kid", "newkid1", "newkid@test.cd", nil),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin registers a student", token: getToken(t, admin),
			body:     body("New Kid", "newkid1", "newkid@test.cd", []string{user.RoleStudent}),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate username conflicts", token: getToken(t, admin),
			body:     body("New Kid Again", "newkid1", "other@test.cd", nil),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, map[string]string{"username": user.ErrUsernameExists.Error()}),
		},
		{
			name: "cannot grant a role above own ceiling", token: getToken(t, admin),
			body:     body("Big Boss", "bigboss1", "boss@test.cd", []string{user.RoleAdminOwner}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"roles": "not enough rights to set these roles"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("unmarshalling user: %v", err)
				}
				if usr.ID == "" || !usr.Active() {
					t.Errorf("expected an active user with an ID; got %+v", usr)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
