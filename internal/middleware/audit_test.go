package middleware

import (
	"strings"
	"testing"

	"logistician-server/internal/model"
)

func TestParseActionFromPath(t *testing.T) {
	cases := []struct {
		method   string
		path     string
		action   string
		resource string
	}{
		{"POST", "/api/v1/logisticians/invite", model.ActionInvite, model.ResourceInvitation},
		{"POST", "/api/v1/orders/share", model.ActionShare, model.ResourceOrderAccess},
		{"POST", "/api/v1/orders/revoke", model.ActionRevoke, model.ResourceOrderAccess},
		{"POST", "/api/auth/login", model.ActionLogin, model.ResourceUser},
		{"POST", "/api/v1/logisticians/register", model.ActionCreate, model.ResourceInvitation},
		{"PUT", "/api/v1/logisticians/123", model.ActionUpdate, model.ResourceLogistician},
		{"DELETE", "/api/v1/logisticians/123", model.ActionDelete, model.ResourceLogistician},
	}

	for _, tc := range cases {
		action, resource, _ := parseActionFromPath(tc.method, tc.path)
		if action != tc.action {
			t.Errorf("%s %s: expected action %s, got %s", tc.method, tc.path, tc.action, action)
		}
		if resource != tc.resource {
			t.Errorf("%s %s: expected resource %s, got %s", tc.method, tc.path, tc.resource, resource)
		}
	}
}

func TestParseActionExtractsResourceID(t *testing.T) {
	id := "ba3c2b9e-7d4f-4e2a-9b1c-0f5d6e7a8b9c"
	_, _, resourceID := parseActionFromPath("DELETE", "/api/v1/logisticians/invitations/"+id)
	if resourceID != id {
		t.Errorf("expected resource id %s, got %s", id, resourceID)
	}
}

func TestMaskSensitiveData(t *testing.T) {
	body := `{"email":"a@b.com","password":"s3cret","token":"tok-123","name":"张三"}`
	masked := maskSensitiveData(body)

	if strings.Contains(masked, "s3cret") {
		t.Error("password value should not survive masking")
	}
	if strings.Contains(masked, "tok-123") {
		t.Error("token value should not survive masking")
	}
	if !strings.Contains(masked, `"password":"***"`) || !strings.Contains(masked, `"token":"***"`) {
		t.Errorf("masked fields missing: %s", masked)
	}
	if !strings.Contains(masked, `"email":"a@b.com"`) || !strings.Contains(masked, "张三") {
		t.Errorf("non-sensitive fields should be untouched: %s", masked)
	}
}

func TestMaskSensitiveDataSpacing(t *testing.T) {
	// 带空格的 JSON 同样脱敏
	body := `{"old_password" : "old", "new_password": "new"}`
	masked := maskSensitiveData(body)

	if strings.Contains(masked, `"old"`) || strings.Contains(masked, `"new"`) {
		t.Errorf("values should be masked regardless of spacing: %s", masked)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("short string should be unchanged, got %q", got)
	}
	if got := truncateString("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}
