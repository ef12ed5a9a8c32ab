package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nerox-support-bot/internal/common/logger"
	"nerox-support-bot/internal/config"
	giveawaydelivery "nerox-support-bot/internal/features/giveaway/delivery/discord"
	giveawayrepo "nerox-support-bot/internal/features/giveaway/repository/redis"
	giveawayservice "nerox-support-bot/internal/features/giveaway/service"
	premiumdelivery "nerox-support-bot/internal/features/premium/delivery/discord"
	premiumrepo "nerox-support-bot/internal/features/premium/repository/redis"
	premiumservice "nerox-support-bot/internal/features/premium/service"
	"nerox-support-bot/internal/features/prize"
	httpserver "nerox-support-bot/internal/http"
	"nerox-support-bot/internal/platform/discord"
	"nerox-support-bot/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	logger.Init("nerox-support-bot", cfg.Debug)
	logger.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Msg("Starting NeroX support bot")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := redis.Open(ctx, fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Redis connection established")

	giveawayRepository := giveawayrepo.NewGiveawayRepository(redisClient.Client)
	premiumRepository := premiumrepo.NewPremiumRepository(redisClient.Client)
	noprefixRepository := premiumrepo.NewNoPrefixRepository(redisClient.Client)

	premiumSvc := premiumservice.NewPremiumService(premiumRepository)
	catalog := prize.NewCatalog(premiumSvc, noprefixRepository)

	session, err := discord.Open(cfg.Discord.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Discord")
	}
	defer session.Close()
	logger.Info().Msg("Discord gateway connected")

	giveawaySvc := giveawayservice.NewGiveawayService(giveawayRepository, session, catalog)

	expiration := giveawayservice.NewExpirationService(
		giveawayRepository,
		giveawaySvc,
		time.Duration(cfg.Giveaway.SweepIntervalSec)*time.Second,
		time.Duration(cfg.Giveaway.TimerHorizonMin)*time.Minute,
	)
	giveawaySvc.SetTrigger(expiration)
	expiration.Start()

	giveawaydelivery.NewHandler(cfg, giveawaySvc, catalog).Register(session)
	premiumdelivery.NewHandler(cfg, premiumSvc).Register(session)
	logger.Info().Str("prefix", cfg.Discord.CommandPrefix).Msg("Command handlers registered")

	server := httpserver.NewServer(cfg.HTTP.Port, cfg.Debug, redisClient, session)
	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down...")

	expiration.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	logger.Info().Msg("Bot exited")
}
