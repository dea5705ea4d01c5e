package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"bizlevel/cmd/seed_catalog/internal/seedmodels"
	"bizlevel/internal/config"
	"bizlevel/internal/database"
	"bizlevel/internal/domain"
	"bizlevel/internal/logger"
	"bizlevel/internal/repository"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "config/seed_data/catalog.json"

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func main() {
	seedFilePath := flag.String("file", defaultSeedFilePath, "path to the catalog seed JSON file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// If logger is not initialized yet, use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting catalog seeding process...")
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN(), cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	byteValue, err := os.ReadFile(*seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}
	var catalog seedmodels.SeedCatalog
	if err := json.Unmarshal(byteValue, &catalog); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("levels", len(catalog.Levels)), zap.Int("faq", len(catalog.FAQ)))

	s := &seeder{
		levels: repository.NewLevelDatabaseAdapter(db),
		chats:  repository.NewChatDatabaseAdapter(db),
		tx:     repository.NewTransactionManagerAdapter(db),
		log:    log,
	}
	created, err := s.Seed(ctx, catalog)
	if err != nil {
		log.Fatal("Catalog seeding failed", zap.Error(err))
	}
	log.Info("Catalog seeding completed", zap.Int("levels_created", created))
}

// seeder writes a seed catalog. Levels are matched by order_index, so
// rerunning the same file creates nothing new.
type seeder struct {
	levels domain.LevelRepository
	chats  domain.ChatRepository
	tx     domain.TransactionManager
	log    *zap.Logger
}

// Seed returns the number of levels created.
func (s *seeder) Seed(ctx context.Context, catalog seedmodels.SeedCatalog) (int, error) {
	created := 0
	for _, sl := range catalog.Levels {
		ok, err := s.seedLevel(ctx, sl)
		if err != nil {
			return created, fmt.Errorf("level %d (%s): %w", sl.OrderIndex, sl.Title, err)
		}
		if ok {
			created++
		}
	}
	for i, f := range catalog.FAQ {
		entry := &domain.FAQEntry{Question: f.Question, Answer: f.Answer, OrderIndex: i + 1}
		if err := s.chats.UpsertFAQ(ctx, entry); err != nil {
			return created, fmt.Errorf("faq %q: %w", firstN(f.Question, 40), err)
		}
	}
	return created, nil
}

func (s *seeder) seedLevel(ctx context.Context, sl seedmodels.SeedLevel) (bool, error) {
	existing, err := s.levels.GetLevelByOrderIndex(ctx, sl.OrderIndex)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.log.Info("Level exists, skipping", zap.Int("order_index", sl.OrderIndex), zap.String("id", existing.ID))
		return false, nil
	}

	status := domain.LevelStatus(sl.Status)
	if status == "" {
		status = domain.LevelStatusPublished
	}
	if !status.IsValid() {
		return false, fmt.Errorf("unknown status %q", sl.Status)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		level := &domain.Level{
			Title:        sl.Title,
			Description:  sl.Description,
			OrderIndex:   sl.OrderIndex,
			IsFree:       sl.IsFree,
			Status:       status,
			ThumbnailURL: sl.ThumbnailURL,
		}
		if err := s.levels.CreateLevel(ctx, level); err != nil {
			return err
		}

		videoIDs := make([]string, 0, len(sl.Videos))
		for i, sv := range sl.Videos {
			video := &domain.Video{
				LevelID:         level.ID,
				Title:           sv.Title,
				OrderIndex:      i + 1,
				DurationSeconds: sv.DurationSeconds,
				YoutubeID:       sv.YoutubeID,
			}
			if err := s.levels.CreateVideo(ctx, video); err != nil {
				return err
			}
			videoIDs = append(videoIDs, video.ID)
		}

		for i, sq := range sl.Questions {
			question := &domain.QuizQuestion{
				LevelID:        level.ID,
				Question:       sq.Question,
				Options:        sq.Options,
				CorrectOptions: sq.CorrectOptions,
				Type:           domain.QuestionType(sq.Type),
				OrderIndex:     i + 1,
			}
			if !question.Type.IsValid() {
				return fmt.Errorf("question %q: unknown type %q", firstN(sq.Question, 40), sq.Type)
			}
			if sq.VideoIndex != nil {
				if *sq.VideoIndex < 0 || *sq.VideoIndex >= len(videoIDs) {
					return fmt.Errorf("question %q: video_index %d out of range", firstN(sq.Question, 40), *sq.VideoIndex)
				}
				question.VideoID = &videoIDs[*sq.VideoIndex]
			}
			if err := s.levels.CreateQuestion(ctx, question); err != nil {
				return err
			}
		}

		for _, sa := range sl.Artifacts {
			artifact := &domain.Artifact{
				LevelID:    level.ID,
				Title:      sa.Title,
				FilePath:   sa.FilePath,
				IsRequired: sa.IsRequired,
			}
			if err := s.levels.CreateArtifact(ctx, artifact); err != nil {
				return err
			}
		}

		s.log.Info("Created level",
			zap.String("id", level.ID),
			zap.Int("order_index", level.OrderIndex),
			zap.Int("videos", len(sl.Videos)),
			zap.Int("questions", len(sl.Questions)),
			zap.Int("artifacts", len(sl.Artifacts)))
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
