package service

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"logistician-server/internal/model"
)

func TestAccessLevelLabel(t *testing.T) {
	cases := []struct {
		level model.AccessLevel
		want  string
	}{
		{model.AccessLevelView, "只读"},
		{model.AccessLevelEdit, "可编辑"},
		{model.AccessLevelSign, "可签署"},
		{model.AccessLevelFull, "完全访问"},
		{model.AccessLevel("other"), "other"},
	}

	for _, tc := range cases {
		if got := AccessLevelLabel(tc.level); got != tc.want {
			t.Errorf("AccessLevelLabel(%s) = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestInvitationTemplateRenders(t *testing.T) {
	tmpl, err := template.New("invitation").Parse(invitationTemplate)
	if err != nil {
		t.Fatalf("invitation template should parse: %v", err)
	}

	data := InvitationEmailData{
		IndustrialName: "测试工业公司",
		AccessLevel:    "只读",
		Message:        "期待与您合作",
		InvitationURL:  "https://logistician.example.com/invitation/abc123",
		ExpiresAt:      "2026-09-08 12:00",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("invitation template should render: %v", err)
	}

	body := buf.String()
	for _, want := range []string{data.IndustrialName, data.AccessLevel, data.Message, data.InvitationURL} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered email should contain %q", want)
		}
	}
}

func TestInvitationTemplateOmitsEmptyMessage(t *testing.T) {
	tmpl := template.Must(template.New("invitation").Parse(invitationTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, InvitationEmailData{IndustrialName: "公司"}); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if strings.Contains(buf.String(), `class="message"`) {
		t.Error("empty message should not render the message block")
	}
}

func TestReminderTemplateRenders(t *testing.T) {
	tmpl, err := template.New("reminder").Parse(invitationReminderTemplate)
	if err != nil {
		t.Fatalf("reminder template should parse: %v", err)
	}

	data := InvitationReminderData{
		IndustrialName: "测试工业公司",
		InvitationURL:  "https://logistician.example.com/invitation/abc123",
		ExpiresAt:      "2026-09-08 12:00",
		RemainingDays:  3,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("reminder template should render: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, "3 天") {
		t.Error("rendered reminder should contain the remaining days")
	}
	if !strings.Contains(body, data.InvitationURL) {
		t.Error("rendered reminder should contain the invitation link")
	}
}

func TestDisabledEmailServiceSoftFails(t *testing.T) {
	s := &EmailService{enabled: false}

	if s.Enabled() {
		t.Error("disabled service should report not enabled")
	}

	// 未启用时发送退化为日志输出，不报错
	if err := s.SendEmail("to@example.com", "subject", "body"); err != nil {
		t.Errorf("disabled service should soft-fail, got %v", err)
	}
	if err := s.SendInvitation("to@example.com", InvitationEmailData{IndustrialName: "公司"}); err != nil {
		t.Errorf("SendInvitation on disabled service should soft-fail, got %v", err)
	}
}
