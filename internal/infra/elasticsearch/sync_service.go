package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vidstream/internal/config"
	"vidstream/internal/model"
	"vidstream/pkg/logger"

	"go.uber.org/zap"
)

// ESVideoDoc ES 视频文档结构
type ESVideoDoc struct {
	ID          int64    `json:"id"`
	OwnerID     int64    `json:"owner_id"`
	OwnerName   string   `json:"owner_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Visibility  string   `json:"visibility"`
	Views       int64    `json:"views"`
	Plays       int64    `json:"plays"`
	Likes       int64    `json:"likes"`
	Duration    int      `json:"duration"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func videoToESDoc(v *model.Video, ownerName string) *ESVideoDoc {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ESVideoDoc{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		OwnerName:   ownerName,
		Title:       v.Title,
		Description: v.Description,
		Category:    v.Category,
		Tags:        tags,
		Visibility:  v.Visibility,
		Views:       v.Views,
		Plays:       v.Plays,
		Likes:       v.Likes,
		Duration:    v.Duration,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
	}
}

// VideosIndexName 视频索引名，按配置覆盖，缺省 videos
func VideosIndexName() string {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["videos"]
	if indexName == "" {
		indexName = "videos"
	}
	return indexName
}

// SyncVideo 同步单个视频到 ES
func SyncVideo(ctx context.Context, v *model.Video, ownerName string) error {
	doc := videoToESDoc(v, ownerName)
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := Index(ctx, VideosIndexName(), fmt.Sprintf("%d", v.ID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Video synced to ES", zap.Int64("video_id", v.ID))
	return nil
}

// DeleteVideo 从 ES 删除视频
func DeleteVideo(ctx context.Context, videoID int64) error {
	resp, err := Delete(ctx, VideosIndexName(), fmt.Sprintf("%d", videoID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// BulkSyncVideos 批量同步视频到 ES（worker 启动时全量重建用）
func BulkSyncVideos(ctx context.Context, videos []model.Video, ownerNames map[int64]string) (success, failed int, err error) {
	indexName := VideosIndexName()

	var buf strings.Builder
	for i := range videos {
		v := &videos[i]
		doc := videoToESDoc(v, ownerNames[v.OwnerID])
		docBody, _ := json.Marshal(doc)

		buf.WriteString(fmt.Sprintf(`{"index":{"_index":"%s","_id":"%d"}}`, indexName, v.ID))
		buf.WriteString("\n")
		buf.Write(docBody)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return 0, 0, nil
	}

	resp, err := Bulk(ctx, strings.NewReader(buf.String()))
	if err != nil {
		return 0, len(videos), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(videos), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return len(videos), 0, nil
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}
