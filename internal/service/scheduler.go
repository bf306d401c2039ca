package service

import (
	"fmt"
	"log"
	"time"

	"logistician-server/internal/config"
	"logistician-server/internal/model"
)

// SchedulerService 定时任务服务
type SchedulerService struct {
	emailService *EmailService
}

// NewSchedulerService 创建定时任务服务
func NewSchedulerService() *SchedulerService {
	return &SchedulerService{
		emailService: NewEmailService(),
	}
}

// Start 启动定时任务
func (s *SchedulerService) Start() {
	// 每小时将已过期的待处理邀请标记为过期
	go s.runHourly(s.ExpireOverdueInvitations)

	// 每天上午 9 点发送邀请到期提醒
	go s.runDaily(9, 0, s.CheckInvitationReminders)

	// 每天凌晨 3 点清理过期数据
	go s.runDaily(3, 0, s.CleanupExpiredData)

	log.Println("定时任务服务已启动")
}

// runDaily 每天定时执行
func (s *SchedulerService) runDaily(hour, minute int, task func()) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if next.Before(now) {
			next = next.Add(24 * time.Hour)
		}
		time.Sleep(next.Sub(now))
		task()
	}
}

// runHourly 每小时执行
func (s *SchedulerService) runHourly(task func()) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		task()
	}
}

// ExpireOverdueInvitations 将已过期仍处于待处理状态的邀请标记为过期
// 读时修复已经覆盖查询路径，这里兜底处理无人访问的邀请
func (s *SchedulerService) ExpireOverdueInvitations() {
	result := model.DB.Model(&model.LogisticianInvitation{}).
		Where("status = ? AND expires_at < ?", model.InviteStatusPending, time.Now()).
		Update("status", model.InviteStatusExpired)

	if result.Error != nil {
		log.Printf("标记过期邀请失败: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("已标记 %d 条过期邀请", result.RowsAffected)
	}
}

// CheckInvitationReminders 检查邀请到期提醒
func (s *SchedulerService) CheckInvitationReminders() {
	log.Println("开始检查邀请到期提醒...")

	// 提醒天数：3天、1天
	reminderDays := []int{3, 1}

	for _, days := range reminderDays {
		s.sendRemindersForDays(days)
	}

	log.Println("邀请到期提醒检查完成")
}

// sendRemindersForDays 发送指定天数的提醒
func (s *SchedulerService) sendRemindersForDays(days int) {
	now := time.Now()
	targetStart := now.AddDate(0, 0, days)
	targetEnd := targetStart.Add(24 * time.Hour)

	var invitations []model.LogisticianInvitation
	model.DB.Where("status = ? AND expires_at >= ? AND expires_at < ?",
		model.InviteStatusPending, targetStart, targetEnd).
		Find(&invitations)

	for _, invite := range invitations {
		s.sendInvitationReminder(&invite, days)
	}
}

// sendInvitationReminder 发送单条邀请到期提醒
func (s *SchedulerService) sendInvitationReminder(invite *model.LogisticianInvitation, days int) {
	industrialName := "合作伙伴"
	var industrial model.User
	if err := model.DB.First(&industrial, "id = ?", invite.IndustrialID).Error; err == nil {
		if industrial.Company != "" {
			industrialName = industrial.Company
		} else {
			industrialName = industrial.Name
		}
	}

	data := InvitationReminderData{
		IndustrialName: industrialName,
		InvitationURL:  InvitationURL(invite.Token),
		ExpiresAt:      invite.ExpiresAt.Format("2006-01-02 15:04"),
		RemainingDays:  days,
	}

	if err := s.emailService.SendInvitationReminder(invite.Email, data); err != nil {
		log.Printf("发送邀请到期提醒失败: %v", err)
	} else {
		log.Printf("已发送邀请到期提醒: %s, 剩余 %d 天", invite.Email, days)
	}
}

// CleanupExpiredData 清理过期数据
func (s *SchedulerService) CleanupExpiredData() {
	log.Println("开始清理过期数据...")

	// 清理90天前的审计日志
	ninetyDaysAgo := time.Now().AddDate(0, 0, -90)
	result := model.DB.Where("created_at < ?", ninetyDaysAgo).Delete(&model.AuditLog{})
	log.Printf("清理审计日志: %d 条", result.RowsAffected)

	// 清理30天前的已读通知
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	result = model.DB.Where("is_read = ? AND created_at < ?", true, thirtyDaysAgo).Delete(&model.Notification{})
	log.Printf("清理已读通知: %d 条", result.RowsAffected)

	log.Println("过期数据清理完成")
}

// InvitationURL 根据邀请令牌生成物流方门户的邀请链接
func InvitationURL(token string) string {
	return fmt.Sprintf("%s/invitation/%s", config.Get().Portal.LogisticianURL, token)
}
