package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubepulse/standout/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id             BIGSERIAL PRIMARY KEY,
	label          TEXT NOT NULL DEFAULT '',
	generated_at   TIMESTAMPTZ NOT NULL,
	channel_count  INT NOT NULL,
	failed_count   INT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS channel_results (
	id             BIGSERIAL PRIMARY KEY,
	run_id         BIGINT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	position       INT NOT NULL,
	channel_name   TEXT NOT NULL,
	channel_url    TEXT NOT NULL,
	canonical_url  TEXT NOT NULL DEFAULT '',
	mean_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
	video_count    INT NOT NULL DEFAULT 0,
	error          TEXT
);

CREATE TABLE IF NOT EXISTS video_scores (
	channel_result_id BIGINT NOT NULL REFERENCES channel_results(id) ON DELETE CASCADE,
	position          INT NOT NULL,
	top_rank          INT,
	video_id          TEXT NOT NULL,
	title             TEXT NOT NULL,
	url               TEXT NOT NULL,
	published_at      TEXT NOT NULL DEFAULT '',
	age_days          INT NOT NULL,
	views             BIGINT NOT NULL,
	likes             BIGINT NOT NULL,
	comments          BIGINT NOT NULL,
	engagement_rate   DOUBLE PRECISION NOT NULL,
	score             DOUBLE PRECISION NOT NULL,
	vs_mean_pct       DOUBLE PRECISION,
	standout_reason   TEXT,
	PRIMARY KEY (channel_result_id, position)
);`

var videoScoreColumns = []string{
	"channel_result_id", "position", "top_rank", "video_id", "title", "url",
	"published_at", "age_days", "views", "likes", "comments",
	"engagement_rate", "score", "vs_mean_pct", "standout_reason",
}

// RunRepo persists finished analysis reports.
type RunRepo struct {
	pool *pgxpool.Pool
}

func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

// EnsureSchema creates the report tables if they do not exist.
func (r *RunRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// SaveReport writes the report as one run with its channels and videos in a
// single transaction and returns the run id.
func (r *RunRepo) SaveReport(ctx context.Context, label string, report model.Report) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO analysis_runs (label, generated_at, channel_count, failed_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		label, report.GeneratedAt, len(report.Channels), report.Failures(),
	).Scan(&runID)
	if err != nil {
		return 0, err
	}

	for i, ch := range report.Channels {
		var channelErr *string
		if ch.Failed() {
			channelErr = &ch.Error
		}

		var channelID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO channel_results
				(run_id, position, channel_name, channel_url, canonical_url, mean_score, video_count, error)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			runID, i, ch.DisplayName(), ch.ChannelURL, ch.CanonicalURL, ch.MeanScore, ch.VideoCount, channelErr,
		).Scan(&channelID)
		if err != nil {
			return 0, err
		}

		if len(ch.Videos) == 0 {
			continue
		}
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"video_scores"}, videoScoreColumns,
			pgx.CopyFromRows(videoScoreRows(channelID, ch)))
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return runID, nil
}

// videoScoreRows builds COPY rows for every analyzed video of a channel.
// Top is a prefix of Videos, so the first len(Top) rows carry their 1-based
// rank.
func videoScoreRows(channelID int64, ch model.ChannelResult) [][]any {
	rows := make([][]any, 0, len(ch.Videos))
	for i, v := range ch.Videos {
		var topRank *int32
		if i < len(ch.Top) {
			rr := int32(i + 1)
			topRank = &rr
		}
		var reason *string
		if v.StandoutReason != "" {
			reason = &v.StandoutReason
		}
		var vsMean *float64
		if topRank != nil {
			vsMean = &v.VsMeanPct
		}
		rows = append(rows, []any{
			channelID, int32(i), topRank, v.ID, v.Title, v.WatchURL(),
			v.PublishedAt, int32(v.AgeDays), v.Views, v.Likes, v.Comments,
			v.EngagementRate, v.Score, vsMean, reason,
		})
	}
	return rows
}
