package accountcore

import "testing"

func TestUserCreateValidate(t *testing.T) {
	tests := []struct {
		name string
		req  UserCreate
		ok   bool
	}{
		{"valid", UserCreate{Email: "arthur@camelot.bt", Password: "x"}, true},
		{"missing email", UserCreate{Password: "x"}, false},
		{"bad email", UserCreate{Email: "arthur", Password: "x"}, false},
		{"missing password", UserCreate{Email: "arthur@camelot.bt"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); (err == nil) != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}

func TestUserUpdateValidate(t *testing.T) {
	if err := (UserUpdate{}).Validate(); err != nil {
		t.Fatalf("expected empty update to be valid, got %v", err)
	}
	if err := (UserUpdate{Email: ptr("not-an-email")}).Validate(); err == nil {
		t.Fatal("expected invalid email to fail")
	}
	if err := (UserUpdate{Password: ptr("")}).Validate(); err == nil {
		t.Fatal("expected empty password to fail")
	}
}

func TestCreateFields(t *testing.T) {
	req := UserCreate{
		Email:       "a@b.c",
		IsActive:    ptr(false),
		IsSuperuser: ptr(true),
		IsVerified:  ptr(true),
	}

	safe := req.CreateFields(true)
	if !safe.IsActive || safe.IsSuperuser || safe.IsVerified {
		t.Fatalf("expected safe defaults, got %+v", safe)
	}
	unsafe := req.CreateFields(false)
	if unsafe.IsActive || !unsafe.IsSuperuser || !unsafe.IsVerified {
		t.Fatalf("expected explicit flags, got %+v", unsafe)
	}
	if defaults := (UserCreate{Email: "a@b.c"}).CreateFields(false); !defaults.IsActive || defaults.IsSuperuser || defaults.IsVerified {
		t.Fatalf("expected defaults when flags are unset, got %+v", defaults)
	}
}

func TestUpdateFields(t *testing.T) {
	req := UserUpdate{Email: ptr("a@b.c"), Password: ptr("Secr3t!!"), IsSuperuser: ptr(true)}

	safe := req.UpdateFields(true)
	if safe.Email == nil || safe.IsSuperuser != nil || safe.HashedPassword != nil {
		t.Fatalf("unexpected safe diff %+v", safe)
	}
	unsafe := req.UpdateFields(false)
	if unsafe.IsSuperuser == nil || !*unsafe.IsSuperuser {
		t.Fatalf("expected superuser in unsafe diff, got %+v", unsafe)
	}
	if (UserUpdate{}).UpdateFields(false).Empty() != true {
		t.Fatal("expected empty diff")
	}
}
