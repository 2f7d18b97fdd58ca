// Command devtoken mints a bearer token for local development, standing in
// for the external identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/config"
	"github.com/yigit/unirecords/internal/pkg/auth"
	"github.com/yigit/unirecords/internal/pkg/helpers"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to config file")
	role := flag.String("role", string(models.RoleAdmin), "session role (ADMIN or STUDENT)")
	studentNumber := flag.String("student", "", "student number, required for STUDENT")
	subject := flag.String("subject", "dev", "token subject")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.Duration("jwt.access_token_expiration", cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	token, expiresAt, err := jwtService.GenerateToken(models.Session{
		Subject:       *subject,
		Role:          models.RoleType(*role),
		StudentNumber: *studentNumber,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to mint token")
		os.Exit(1)
	}

	logger.Info().Time("expiresAt", expiresAt).Str("role", *role).Msg("Token minted")
	fmt.Println(token)
}
