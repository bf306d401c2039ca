package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"logistician-server/internal/config"
	"logistician-server/internal/handler"
	"logistician-server/internal/model"
	"logistician-server/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	migrate := flag.Bool("migrate", false, "是否执行数据库迁移")
	initAdmin := flag.Bool("init-admin", false, "初始化管理员账号")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	if err := model.InitDB(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	log.Println("数据库连接成功")

	// 自动执行数据库迁移（确保表结构是最新的）
	log.Println("检查数据库表结构...")
	if err := model.AutoMigrate(); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 数据库迁移（仅迁移模式）
	if *migrate {
		log.Println("数据库迁移完成")
		os.Exit(0)
	}

	// 初始化管理员账号
	if *initAdmin {
		log.Println("初始化管理员账号...")

		adminEmail := "admin@symphonia.local"
		adminPassword := "admin123"

		var existing model.User
		if err := model.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
			log.Println("管理员账号已存在")
			os.Exit(0)
		}

		admin := model.User{
			Email:  adminEmail,
			Name:   "管理员",
			Role:   "admin",
			Portal: "admin",
		}
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("密码加密失败: %v", err)
		}
		if err := model.DB.Create(&admin).Error; err != nil {
			log.Fatalf("创建管理员失败: %v", err)
		}

		log.Println("管理员账号创建成功!")
		log.Printf("邮箱: %s", adminEmail)
		log.Printf("密码: %s", adminPassword)
		log.Println("")
		log.Println("【重要提示】请登录后立即修改默认密码！")
		os.Exit(0)
	}

	// 启动定时任务（邀请过期、到期提醒、数据清理）
	scheduler := service.NewSchedulerService()
	scheduler.Start()

	// 创建 Gin 引擎
	r := gin.New()

	// 设置路由
	handler.SetupRouter(r)

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if cfg.Server.TLS.Enabled {
		log.Printf("服务器启动在 https://%s", addr)
		if err := r.RunTLS(addr, cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil {
			log.Fatalf("服务器启动失败: %v", err)
		}
		return
	}

	log.Printf("服务器启动在 http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
