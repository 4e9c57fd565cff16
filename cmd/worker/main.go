package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"hairworks/internal/adapter/repo"
	"hairworks/internal/http/handlers"
	"hairworks/internal/http/httpapi"
	"hairworks/internal/infra"
	"hairworks/internal/media"
	"hairworks/internal/pipeline"
	"hairworks/internal/pipeline/faceshape"
	"hairworks/internal/pipeline/frames"
	"hairworks/internal/pipeline/rank"
	"hairworks/internal/providers/headfit"
	"hairworks/internal/providers/landmark"
	"hairworks/internal/providers/render"
	"hairworks/internal/queue"
	"hairworks/internal/storage"
)

const receiveBackoff = 5 * time.Second

type worker struct {
	ctx               context.Context
	consumer          queue.Consumer
	executor          *pipeline.Executor
	heartbeatInterval time.Duration
	visibility        time.Duration
	logger            infra.Logger
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("worker_id", uuid.NewString()).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: aws configuration failed")
	}

	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		}
	})

	consumer := queue.NewSQSConsumer(sqsClient, cfg.QueueURL, cfg.QueueWaitTime, cfg.VisibilityTimeout)

	uploader, err := buildUploader(cfg, s3Client, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure uploader")
	}

	references, err := render.LoadReferenceCatalog(cfg.ReferenceCatalogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to load reference catalog")
	}
	if references.Len() > 0 {
		logger.Info().Int("entries", references.Len()).Msg("worker: reference catalog loaded")
	}

	detector := landmark.NewClient(landmark.Options{
		BaseURL: cfg.LandmarkBaseURL,
		Logger:  &logger,
	})
	fitter := headfit.NewClient(headfit.Options{
		BaseURL: cfg.HeadFitBaseURL,
		Timeout: cfg.HeadFitTimeout,
		Logger:  &logger,
	})
	renderClient := render.NewClient(render.Options{
		BaseURL:    cfg.RenderBaseURL,
		References: references,
		Logger:     &logger,
	})

	executor := pipeline.NewExecutor(pipeline.Deps{
		Jobs:      repo.NewJobRepository(pool),
		Fetcher:   media.NewS3Fetcher(s3Client, cfg.UploadsBucket),
		Extractor: media.NewFFmpegExtractor(cfg.FFmpegPath),
		Selector:  frames.NewSelector(detector, logger),
		Analyzer:  faceshape.NewAnalyzer(detector, logger),
		Fitter:    fitter,
		Ranker:    rank.NewRanker(repo.NewCatalogRepository(pool), logger),
		Renderer:  renderClient,
		Refiner:   renderClient,
		Uploader:  uploader,
		Logger:    logger,
	})

	srv := infra.NewHTTPServer(cfg, httpapi.NewRouter(handlers.NewApp(pool, logger)))
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("worker: health server stopped")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	w := &worker{
		ctx:               ctx,
		consumer:          consumer,
		executor:          executor,
		heartbeatInterval: cfg.HeartbeatInterval,
		visibility:        cfg.VisibilityTimeout,
		logger:            logger,
	}

	if err := w.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func loadAWSConfig(ctx context.Context, cfg *infra.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSEndpointURL != "" && cfg.AWSAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func buildUploader(cfg *infra.Config, s3Client *s3.Client, logger infra.Logger) (media.ViewUploader, error) {
	if cfg.UploadBackend == "filesystem" {
		store, err := storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", store.BasePath()).Msg("worker: using filesystem view storage")
		return media.NewLocalUploader(store, cfg.StorageBaseURL), nil
	}
	return media.NewS3Uploader(s3Client, cfg.ResultsBucket, cfg.PresignTTL), nil
}

// Run drives the continuous receive loop. Receive errors back off briefly and
// never surface to a job; an empty poll retries immediately.
func (w *worker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		msg, err := w.consumer.Receive(w.ctx)
		if err != nil {
			if w.ctx.Err() != nil {
				return w.ctx.Err()
			}
			w.logger.Error().Err(err).Msg("worker: receive failed, backing off")
			select {
			case <-w.ctx.Done():
				return w.ctx.Err()
			case <-time.After(receiveBackoff):
			}
			continue
		}
		if msg == nil {
			continue
		}

		w.handleMessage(msg)
	}
}

func (w *worker) handleMessage(msg *queue.Message) {
	var envelope queue.JobEnvelope
	if err := json.Unmarshal(msg.Body, &envelope); err != nil || envelope.JobID == "" {
		// A body that cannot parse will never succeed; drop it instead of
		// letting it cycle through the queue forever.
		w.logger.Error().Err(err).Str("body", string(msg.Body)).Msg("worker: malformed message, deleting")
		if delErr := w.consumer.Delete(w.ctx, msg.Lease); delErr != nil {
			w.logger.Error().Err(delErr).Msg("worker: delete malformed message failed")
		}
		return
	}

	logger := w.logger.With().Str("job_id", envelope.JobID).Logger()
	logger.Info().Msg("worker: received job")

	hb := queue.StartHeartbeat(w.consumer, msg.Lease, w.heartbeatInterval, w.visibility, logger)
	defer hb.Stop()

	if err := w.executor.Process(w.ctx, envelope.JobID); err != nil {
		logger.Error().Err(err).Msg("worker: job failed, message will reappear after lease expiry")
		return
	}

	if err := w.consumer.Delete(w.ctx, msg.Lease); err != nil {
		logger.Error().Err(err).Msg("worker: delete message failed")
		return
	}
	logger.Info().Msg("worker: message deleted")
}
