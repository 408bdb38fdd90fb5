package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/rs/zerolog/log"

	"github.com/uma-arai/lightbnb/internal/common/utils"
	"github.com/uma-arai/lightbnb/internal/config"
	"github.com/uma-arai/lightbnb/internal/logger"
	"github.com/uma-arai/lightbnb/internal/repository"
	"github.com/uma-arai/lightbnb/internal/service/batch"
	"github.com/uma-arai/lightbnb/internal/service/gateway"
)

const projectName = "lightbnb-itinerary"

func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", 5*time.Minute, "バッチ処理のタイムアウト時間")
	guestID := flag.Int64("guest-id", 0, "予約一覧を取得するゲストのID")
	limit := flag.Int("limit", gateway.DefaultLimit, "取得する予約の最大件数")
	flag.Parse()

	// 最後の引数として渡されたタスクトークンを取得
	// ENV=LOCALの場合はタスクトークンを取得しない
	taskToken := "DUMMY_TASK_TOKEN"
	if os.Getenv("ENV") != "LOCAL" {
		if flag.NArg() == 0 {
			log.Fatal().Msg("task token is required")
		}
		taskToken = flag.Arg(flag.NArg() - 1)
	}

	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(utils.GetStackWithError(err)).Msg("failed to load config")
	}
	cfg.SFN.TaskToken = taskToken

	l := logger.New(cfg.Log.Level, cfg.Env)
	lg := &l

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000",
			ServiceVersion: "1.0.0",
		}); err != nil {
			lg.Warn().Err(err).Msg("failed to configure X-Ray, using default settings")
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				lg.Fatal().Err(configErr).Msg("failed to configure default X-Ray settings")
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	// Step Functionsクライアントの初期化
	var sfnClient batch.SFNClient
	if os.Getenv("ENV") != "LOCAL" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			lg.Fatal().Err(utils.GetStackWithError(err)).Msg("failed to load AWS config")
		}
		sfnClient = sfn.NewFromConfig(awsCfg)
	}

	// コンテキストの作成
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		if err := seg.AddMetadata("guest_id", *guestID); err != nil {
			lg.Warn().Err(err).Msg("failed to add guest_id metadata")
		}
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			lg.Warn().Err(err).Msg("failed to add timeout metadata")
		}
	}

	db, err := repository.NewDB(ctx, &cfg.DB, lg)
	if err != nil {
		lg.Fatal().Err(utils.GetStackWithError(err)).Msg("failed to connect database")
	}
	defer db.Close()

	service := batch.NewItineraryBatchService(cfg, gateway.NewFromDB(db, cfg.DB.QueryTimeout, lg), sfnClient, lg)
	service.SetArgs(*guestID, *limit)

	// シグナルハンドリングの設定
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// バッチ処理の実行
	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, *timeout, service.Run)
	}()

	// シグナルまたはエラーの待機
	select {
	case sig := <-sigChan:
		lg.Warn().Str("signal", sig.String()).Msg("received signal")
		cancel()
	case err := <-errChan:
		if err != nil {
			lg.Error().Err(err).Msg("batch process failed")

			// 処理用のコンテキストは期限切れの可能性があるため新しく作る
			notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if sendErr := service.SendTaskFailure(notifyCtx, err); sendErr != nil {
				lg.Error().Err(sendErr).Msg("failed to send task failure")
			}
			notifyCancel()

			db.Close()
			os.Exit(1)
		}
		lg.Info().Msg("batch process completed successfully")
	}
}
