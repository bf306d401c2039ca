package model

import "testing"

func TestAccessLevelIsValid(t *testing.T) {
	for _, level := range []AccessLevel{AccessLevelView, AccessLevelEdit, AccessLevelSign, AccessLevelFull} {
		if !level.IsValid() {
			t.Errorf("level %s should be valid", level)
		}
	}

	if AccessLevel("admin").IsValid() {
		t.Error("unknown level should be invalid")
	}
	if AccessLevel("").IsValid() {
		t.Error("empty level should be invalid")
	}
}

func TestAccessLevelAtLeast(t *testing.T) {
	if !AccessLevelFull.AtLeast(AccessLevelView) {
		t.Error("full should cover view")
	}
	if !AccessLevelEdit.AtLeast(AccessLevelEdit) {
		t.Error("level should cover itself")
	}
	if AccessLevelView.AtLeast(AccessLevelEdit) {
		t.Error("view should not cover edit")
	}
	if AccessLevelSign.AtLeast(AccessLevelFull) {
		t.Error("sign should not cover full")
	}
}

func TestPrimaryContact(t *testing.T) {
	l := &Logistician{
		Contacts: []Contact{
			{Name: "张三", Role: "reception"},
			{Name: "李四", Role: "management", IsPrimary: true},
		},
	}

	contact := l.PrimaryContact()
	if contact == nil || contact.Name != "李四" {
		t.Errorf("expected primary contact 李四, got %v", contact)
	}
}

func TestPrimaryContactFallback(t *testing.T) {
	// 无主联系人标记时返回第一个
	l := &Logistician{
		Contacts: []Contact{
			{Name: "张三"},
			{Name: "李四"},
		},
	}

	contact := l.PrimaryContact()
	if contact == nil || contact.Name != "张三" {
		t.Errorf("expected fallback contact 张三, got %v", contact)
	}

	empty := &Logistician{}
	if empty.PrimaryContact() != nil {
		t.Error("no contacts should return nil")
	}
}

func TestDefaultLogisticianSettings(t *testing.T) {
	s := DefaultLogisticianSettings()

	if !s.Notifications.Email {
		t.Error("email notifications should default on")
	}
	if s.Notifications.SMS || s.Notifications.Push {
		t.Error("sms and push should default off")
	}
	if !s.Permissions.CanViewDocuments {
		t.Error("document viewing should default on")
	}
	if s.Permissions.CanManagePlanning {
		t.Error("planning management should default off")
	}
}
