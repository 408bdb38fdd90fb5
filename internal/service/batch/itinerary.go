package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/rs/zerolog"

	"github.com/uma-arai/lightbnb/internal/common/utils"
	"github.com/uma-arai/lightbnb/internal/config"
	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/sqlerr"
)

// ReservationLister はゲストの予約一覧を取得します
type ReservationLister interface {
	GetAllReservations(ctx context.Context, guestID int64, limit int) ([]model.GuestReservation, error)
}

// SFNClient はStep Functionsのタスク結果を通知します
type SFNClient interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// ItineraryBatchService はゲストの予約一覧をStep Functionsへ返却するバッチ処理を担当します
type ItineraryBatchService struct {
	guestID   int64
	limit     int
	gateway   ReservationLister
	sfnClient SFNClient
	cfg       *config.Config
	log       *zerolog.Logger
	now       func() time.Time
}

// NewItineraryBatchService は新しいItineraryBatchServiceを作成します
// sfnClient が nil の場合は通知をスキップします
func NewItineraryBatchService(cfg *config.Config, gateway ReservationLister, sfnClient SFNClient, logger *zerolog.Logger) *ItineraryBatchService {
	return &ItineraryBatchService{
		gateway:   gateway,
		sfnClient: sfnClient,
		cfg:       cfg,
		log:       logger,
		now:       time.Now,
	}
}

// SetArgs はバッチ処理の引数を設定します
func (s *ItineraryBatchService) SetArgs(guestID int64, limit int) {
	s.guestID = guestID
	s.limit = limit
}

// Run はゲストの予約一覧を取得し、タスク成功を通知します
func (s *ItineraryBatchService) Run(ctx context.Context) (err error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ItineraryBatchService.Run")
	defer func() {
		if seg != nil {
			seg.Close(err)
		}
	}()

	startTime := time.Now()

	if s.guestID <= 0 {
		return fmt.Errorf("%w: guest id must be positive", model.ErrInvalidInput)
	}

	reservations, err := s.gateway.GetAllReservations(ctx, s.guestID, s.limit)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to get reservations for guest %d: %w", s.guestID, err))
	}

	s.log.Info().
		Int64("guest_id", s.guestID).
		Int("count", len(reservations)).
		Msg("reservations fetched")

	itinerary := model.NewItinerary(s.guestID, reservations, s.now().UTC())
	if err := s.sendTaskSuccess(ctx, itinerary); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)
	if seg != nil {
		if err := seg.AddMetadata("duration", duration.String()); err != nil {
			s.log.Warn().Err(err).Msg("failed to add duration metadata")
		}
	}

	s.log.Info().Dur("duration", duration).Msg("itinerary batch process completed successfully")
	return nil
}

// SendTaskFailure はStep Functionsにタスク失敗を通知します
// エラーの種類を Error に、利用者向けのメッセージを Cause に設定します
func (s *ItineraryBatchService) SendTaskFailure(ctx context.Context, cause error) error {
	if s.skipStepFunctions() {
		s.log.Info().Msg("local environment detected, skipping Step Functions task failure notification")
		return nil
	}

	input := &sfn.SendTaskFailureInput{
		TaskToken: aws.String(s.cfg.SFN.TaskToken),
		Error:     aws.String(failureKind(cause)),
		Cause:     aws.String(sqlerr.Message(cause)),
	}
	if _, err := s.sfnClient.SendTaskFailure(ctx, input); err != nil {
		return fmt.Errorf("failed to send task failure: %w", err)
	}
	return nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知し、予約一覧を返却します
func (s *ItineraryBatchService) sendTaskSuccess(ctx context.Context, itinerary model.Itinerary) error {
	output, err := json.Marshal(itinerary)
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	// ローカルの場合はStep Functionsの処理をスキップ
	if s.skipStepFunctions() {
		s.log.Info().RawJSON("itinerary", output).Msg("local environment detected, skipping Step Functions task success notification")
		return nil
	}

	taskToken := s.cfg.SFN.TaskToken
	if taskToken == "" {
		return errors.New("task token is not set in config")
	}

	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(output)),
	}
	if _, err := s.sfnClient.SendTaskSuccess(ctx, input); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	s.log.Info().Int("bytes", len(output)).Msg("sent task success")
	return nil
}

func (s *ItineraryBatchService) skipStepFunctions() bool {
	return os.Getenv("ENV") == "LOCAL" || s.sfnClient == nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, sqlerr.ErrNotFound):
		return "NotFound"
	case errors.Is(err, sqlerr.ErrConstraintViolation):
		return "ConstraintViolation"
	case errors.Is(err, sqlerr.ErrQueryFailed):
		return "QueryFailed"
	default:
		return "BatchFailed"
	}
}
