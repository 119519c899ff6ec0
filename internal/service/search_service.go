package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vidstream/internal/api/dto"
	infraES "vidstream/internal/infra/elasticsearch"
	"vidstream/internal/model"
	"vidstream/pkg/logger"

	"go.uber.org/zap"
)

// SearchService 基于 ES 的视频搜索，只查 ID，详情回源数据库
type SearchService struct {
	videos VideoStore
}

func NewSearchService(videos VideoStore) *SearchService {
	return &SearchService{videos: videos}
}

// esSearchResult ES 搜索响应中本服务关心的部分
type esSearchResult struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source struct {
				ID int64 `json:"id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// buildQuery 构造搜索查询：只命中公开视频，
// 搜索词对标题（加权）、描述、标签做 multi_match，分类走精确过滤
func buildQuery(category, search string, page, limit int) map[string]interface{} {
	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"visibility": model.VisibilityPublic}},
	}
	if category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if search != "" {
		boolQuery["must"] = []map[string]interface{}{
			{
				"multi_match": map[string]interface{}{
					"query":  search,
					"fields": []string{"title^3", "description", "tags"},
				},
			},
		}
	}

	return map[string]interface{}{
		"query":   map[string]interface{}{"bool": boolQuery},
		"from":    (page - 1) * limit,
		"size":    limit,
		"_source": []string{"id"},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

// SearchPublic 搜索公开视频，返回按相关度排序的分页结果。
// ES 不可用或查询失败时返回错误，由调用方降级到数据库查询。
func (s *SearchService) SearchPublic(category, search string, page, limit int) (*dto.VideoListData, error) {
	if infraES.Get() == nil {
		return nil, fmt.Errorf("elasticsearch not available")
	}

	query := buildQuery(category, search, page, limit)
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	resp, err := infraES.Search(context.Background(), infraES.VideosIndexName(), strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("es search failed: %s", resp.String())
	}

	var result esSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}

	videos, err := s.videos.GetByIDsWithOwner(ids)
	if err != nil {
		return nil, err
	}

	// 回源结果按 ES 命中顺序重排，索引落后于库删除时静默跳过
	byID := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	ordered := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok && v.Visibility == model.VisibilityPublic {
			ordered = append(ordered, *v)
		}
	}

	logger.Debug("ES search completed",
		zap.String("search", search),
		zap.Int("hits", len(ordered)),
		zap.Int64("total", result.Hits.Total.Value),
	)

	return buildVideoListData(ordered, result.Hits.Total.Value, page, limit), nil
}
