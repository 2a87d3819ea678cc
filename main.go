package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/bm-go/mode"
	"github.com/khaledhikmat/bm-go/pipeline"
	"github.com/khaledhikmat/bm-go/service/config"
	"github.com/khaledhikmat/bm-go/service/data"
	"github.com/khaledhikmat/bm-go/service/estimator"
	"github.com/khaledhikmat/bm-go/service/lgr"
	"github.com/khaledhikmat/bm-go/service/orphan"
	"github.com/khaledhikmat/bm-go/service/storage"
	"github.com/khaledhikmat/bm-go/service/video"
	"github.com/khaledhikmat/bm-go/service/webhook"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"tracker": mode.Tracker,
	"manager": mode.Manager,
	"monitor": mode.Monitor,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Error("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
			panic("error loading .env file")
		}
	}

	modeType := "tracker"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	lgr.Bannerf("bm-go starting in %s mode", modeType)

	// Create the services needed for the mode processor
	// They can be overridden by the mode processor with different implementations
	// Config service
	cfgSvc := config.NewHardCoded()
	// Data service
	dataSvc := data.NewFilesDB(cfgSvc)
	// Orphan service
	orphanSvc := orphan.NewTimed(canxCtx, cfgSvc, dataSvc)
	// storage service
	storageSvc := storage.NewFake(cfgSvc)
	// video service
	videoSvc := video.NewWebcam(cfgSvc)
	// estimator service
	estimatorSvc := estimator.NewMoveNet(cfgSvc)
	// webhook service
	webhookSvc := webhook.NewFake(cfgSvc)

	svcs := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		DataSvc:      dataSvc,
		OrphanSvc:    orphanSvc,
		StorageSvc:   storageSvc,
		VideoSvc:     videoSvc,
		EstimatorSvc: estimatorSvc,
		WebhookSvc:   webhookSvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Decide on streamers
	streamers := []pipeline.Streamer{
		// pipeline.MP4Recorder,
		pipeline.PoseStreamer,
	}

	// Use the library simple reporter

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, streamers, pipeline.SimpleReporter)
	}()

	// Wait for cancellation, mode proc, stats or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"agents pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"agents pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are exiting
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"agents pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"agents pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"agents pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
