package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/google"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Chemical{},
		&model.ChemicalUsageLog{},
		&model.Equipment{},
		&model.EquipmentMaintenanceLog{},
		&model.Notification{},
		&model.AuditLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	chemicalRepo := infraRepo.NewChemicalGormRepository(gormDB)
	equipmentRepo := infraRepo.NewEquipmentGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	notifRepo := infraRepo.NewNotificationGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}
	oauthClient := google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	//Usecase生成
	auditUC := usecase.NewAuditUsecase(auditRepo)
	chemicalUC := usecase.NewChemicalUsecase(chemicalRepo, auditUC, cfg.EnforceNonNegativeStock)
	equipmentUC := usecase.NewEquipmentUsecase(equipmentRepo, auditUC, clock)
	userUC := usecase.NewUserUsecase(userRepo, auditUC)
	notifUC := usecase.NewNotificationUsecase(notifRepo, chemicalRepo, equipmentRepo, clock)
	authUC := usecase.NewAuthUsecase(userRepo, oauthClient, issuer, clock)

	//Handler生成とServer起動
	e := server.New(cfg, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, cfg.FrontendURL),
		Chemical:     handler.NewChemicalHandler(chemicalUC),
		Equipment:    handler.NewEquipmentHandler(equipmentUC),
		User:         handler.NewUserHandler(userUC),
		Notification: handler.NewNotificationHandler(notifUC),
		Audit:        handler.NewAuditHandler(auditUC),
	})

	if err := e.Start(":" + cfg.Port); err != nil {
		panic(err)
	}
}
