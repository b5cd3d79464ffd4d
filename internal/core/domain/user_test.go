package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"user":      RoleUser,
		"admin":     RoleAdmin,
		"":          RoleNone,
		"root":      RoleNone,
		"Admin":     RoleNone,
		"superuser": RoleNone,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func sampleUser() *User {
	return &User{
		ID:        7,
		Account:   "alice123",
		Password:  "47a6414860b281b481d893ed708c82b4",
		Name:      "UserA1B2C3",
		Profile:   "hello",
		Role:      "user",
		CreatedAt: time.Unix(1700000000, 0).UTC(),
		UpdatedAt: time.Unix(1700000001, 0).UTC(),
	}
}

func TestViews_NeverExposeDigest(t *testing.T) {
	u := sampleUser()

	for name, v := range map[string]any{
		"login view": NewLoginUserView(u),
		"user view":  NewUserView(u),
		"user json":  u,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("%s marshal failed: %v", name, err)
		}
		if strings.Contains(string(raw), u.Password) {
			t.Fatalf("%s leaks the password digest: %s", name, raw)
		}
		if strings.Contains(strings.ToLower(string(raw)), "password") {
			t.Fatalf("%s contains a password field: %s", name, raw)
		}
	}
}

func TestViews_CarryIdentityFields(t *testing.T) {
	u := sampleUser()

	lv := NewLoginUserView(u)
	if lv.ID != u.ID || lv.Account != u.Account || lv.Role != u.Role {
		t.Fatalf("login view dropped identity fields: %+v", lv)
	}

	uv := NewUserView(u)
	if uv.ID != u.ID || uv.Name != u.Name {
		t.Fatalf("user view dropped identity fields: %+v", uv)
	}
}

func TestViews_NilSafe(t *testing.T) {
	if NewLoginUserView(nil) != nil || NewUserView(nil) != nil {
		t.Fatalf("nil user must project to nil view")
	}
	if got := NewUserViewList([]*User{nil, sampleUser()}); len(got) != 1 {
		t.Fatalf("expected nil entries skipped, got %d views", len(got))
	}
}
