package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/config"
	"github.com/RIT-ITS/DCVTool-sub002/internal/database"
	httpapi "github.com/RIT-ITS/DCVTool-sub002/internal/http"
	"github.com/RIT-ITS/DCVTool-sub002/internal/logger"
	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
	"github.com/RIT-ITS/DCVTool-sub002/internal/service"
	"github.com/RIT-ITS/DCVTool-sub002/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "dcvtool")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("invalid timezone", zap.String("tz", cfg.Timezone), zap.Error(err))
	}

	registryDB, err := database.NewPostgresDB(&cfg.Registry)
	if err != nil {
		log.Fatal("registry store connection failed", zap.Error(err))
	}
	defer registryDB.Close()

	basDB, err := database.NewPostgresDB(&cfg.BAS)
	if err != nil {
		log.Fatal("BAS store connection failed", zap.Error(err))
	}
	defer basDB.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	// Registry-store repositories.
	roomsRepo := repository.NewRoomsRepo(registryDB)
	zonesRepo := repository.NewZonesRepo(registryDB)
	referenceRepo := repository.NewReferenceRepo(registryDB)
	uncertaintyRepo := repository.NewUncertaintyRepo(registryDB)
	termsRepo := repository.NewTermsRepo(registryDB)
	xrefRepo := repository.NewXrefRepo(registryDB)
	scheduleRepo := repository.NewScheduleRepo(registryDB)
	expandedRepo := repository.NewSetpointExpandedRepo(registryDB)
	auditRepo := repository.NewAuditRepo(registryDB)
	oplogRepo := repository.NewOpLogRepo(registryDB)
	upsertEngine := repository.NewUpsertEngine(registryDB, auditRepo, log)

	// BAS-store repository (read-only).
	basRepo := repository.NewBasSetpointsRepo(basDB)

	point := service.NewPointNamer(cfg.Point.Prefix, cfg.Point.Suffix)
	sisClient := service.NewSISClient(cfg.SIS.BaseURL, cfg.SIS.APIKey, log)

	airflowSvc := service.NewAirflowService(xrefRepo, uncertaintyRepo, termsRepo, loc, log)
	setpointSvc := service.NewSetpointService(basRepo, expandedRepo, xrefRepo,
		uncertaintyRepo, point, loc, log)
	scheduleSvc := service.NewScheduleService(sisClient, scheduleRepo, expandedRepo, setpointSvc, log)
	dispatchSvc := service.NewDispatchService(scheduleSvc, referenceRepo, termsRepo,
		oplogRepo, kv, loc, log)

	// The point-name convention has to survive a round trip for every zone
	// code before the pipeline is allowed to compose BAS point names.
	selfCheckCtx, selfCheckCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := validatePointNames(selfCheckCtx, referenceRepo, xrefRepo, setpointSvc, log); err != nil {
		selfCheckCancel()
		log.Fatal("point-name self-check failed", zap.Error(err))
	}
	selfCheckCancel()

	jobHandler := httpapi.NewJobHandler(dispatchSvc, cfg.Tokens, log)
	readHandler := httpapi.NewReadHandler(roomsRepo, zonesRepo, referenceRepo,
		uncertaintyRepo, termsRepo, xrefRepo, scheduleRepo, auditRepo, oplogRepo,
		airflowSvc, setpointSvc, loc, log)
	writeHandler := httpapi.NewWriteHandler(upsertEngine, log)

	router := httpapi.NewRouter(log)
	router.RegisterJobRoutes(jobHandler)
	router.RegisterReferenceRoutes(readHandler, writeHandler)
	router.RegisterHealthRoute()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// validatePointNames round-trips every zone code in every active building
// through the configured prefix/suffix convention.
func validatePointNames(
	ctx context.Context,
	reference *repository.ReferenceRepo,
	xref *repository.XrefRepo,
	setpoints *service.SetpointService,
	log *zap.Logger,
) error {
	buildings, err := reference.ActiveBuildings(ctx)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		rows, err := xref.BuildingRows(ctx, b.BuildingID)
		if err != nil {
			return err
		}
		if err := setpoints.ValidateZoneCodes(ctx, rows); err != nil {
			return err
		}
	}
	log.Info("point-name self-check passed", zap.Int("buildings", len(buildings)))
	return nil
}
