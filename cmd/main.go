package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/majwic/namilx-api/config"
	"github.com/majwic/namilx-api/internal/api/auth"
	"github.com/majwic/namilx-api/internal/api/comment"
	"github.com/majwic/namilx-api/internal/api/post"
	"github.com/majwic/namilx-api/internal/api/profile"
	"github.com/majwic/namilx-api/internal/middleware"
	"github.com/majwic/namilx-api/internal/repository/mysql"
	"github.com/majwic/namilx-api/internal/service"
	"github.com/majwic/namilx-api/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// 内置角色，启动时写入（已存在则跳过）
var defaultRoles = []string{"USER", "ADMIN", "MODERATOR"}

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 初始化存储库
	profileRepo := mysql.NewProfileRepository(db)
	roleRepo := mysql.NewRoleRepository(db)
	postRepo := mysql.NewPostRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	reactionRepo := mysql.NewReactionRepository(db)

	// 写入内置角色
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := roleRepo.EnsureDefaults(seedCtx, defaultRoles); err != nil {
		cancelSeed()
		util.Logger.Fatal("初始化内置角色失败", zap.Error(err))
	}
	cancelSeed()
	util.Logger.Info("内置角色就绪")

	// 初始化服务和处理器
	authService := service.NewAuthService(profileRepo)
	profileService := service.NewProfileService(profileRepo, roleRepo)
	ledger := service.NewReactionLedger(reactionRepo)
	postService := service.NewPostService(postRepo, profileRepo, ledger)
	commentService := service.NewCommentService(commentRepo, postRepo, profileRepo, ledger)

	authHandler := auth.NewAuthHandler(authService)
	profileHandler := profile.NewProfileHandler(profileService)
	postHandler := post.NewPostHandler(postService)
	commentHandler := comment.NewCommentHandler(commentService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS，会话通过 cookie 携带，必须允许凭证
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
	}
	r.Use(cors.New(corsConfig))

	requireAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.AuthOptional(authService)

	// 认证相关路由
	r.GET("/auth/validate", requireAuth, authHandler.Validate)
	r.POST("/auth/signin", authHandler.SignIn)
	r.DELETE("/auth/signout", authHandler.SignOut)

	// 档案相关路由
	r.POST("/profile", profileHandler.Create)
	r.GET("/profile", requireAuth, profileHandler.ReadByCookie)
	r.GET("/profile/:id", profileHandler.ReadByID)
	r.PUT("/profile", requireAuth, profileHandler.Update)
	r.DELETE("/profile", requireAuth, profileHandler.Delete)

	// 帖子相关路由
	r.POST("/post", requireAuth, postHandler.Create)
	r.GET("/post/tag", optionalAuth, postHandler.ReadAllByTag)
	r.GET("/post/:id", optionalAuth, postHandler.Read)
	r.POST("/post/:id", requireAuth, postHandler.React)
	r.DELETE("/post/:id", requireAuth, postHandler.Delete)

	// 评论相关路由
	r.POST("/comment", requireAuth, commentHandler.Create)
	r.GET("/comment/from-post/:postId", optionalAuth, commentHandler.ReadAllFromPost)
	r.GET("/comment/:id", optionalAuth, commentHandler.Read)
	r.POST("/comment/:id", requireAuth, commentHandler.React)
	r.DELETE("/comment/:id", requireAuth, commentHandler.Delete)

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("port", config.AppConfig.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
