package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"vidstream/internal/api/dto"
	"vidstream/internal/config"
	infraKafka "vidstream/internal/infra/kafka"
	"vidstream/internal/model"
	"vidstream/internal/repository"
	"vidstream/internal/storage"
	"vidstream/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()

	// 登录测试需要签发 Token，准备一份最小配置
	f, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		panic(err)
	}
	_, _ = f.WriteString("app:\n  name: vidstream-test\njwt:\n  secret: test-secret\n  expire_hours: 1\n")
	f.Close()
	if _, err := config.Load(f.Name()); err != nil {
		panic(err)
	}
	os.Remove(f.Name())

	os.Exit(m.Run())
}

// --- fakes ---

type fakeVideoStore struct {
	videos       map[int64]*model.Video
	nextID       int64
	createErr    error
	lastUpdates  map[string]interface{}
	lastListOpts *repository.VideoListOptions
	playsIncr    map[int64]int
}

func newFakeVideoStore(videos ...*model.Video) *fakeVideoStore {
	s := &fakeVideoStore{
		videos:    make(map[int64]*model.Video),
		nextID:    1,
		playsIncr: make(map[int64]int),
	}
	for _, v := range videos {
		s.videos[v.ID] = v
		if v.ID >= s.nextID {
			s.nextID = v.ID + 1
		}
	}
	return s
}

func (f *fakeVideoStore) Create(v *model.Video) error {
	if f.createErr != nil {
		return f.createErr
	}
	v.ID = f.nextID
	f.nextID++
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	f.videos[v.ID] = v
	return nil
}

func (f *fakeVideoStore) GetByID(id int64) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok || v.Visibility == model.VisibilityDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeVideoStore) GetByIDIncludeDeleted(id int64) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 和真实仓库一致：每次查询返回独立副本，调用方修改不影响存储状态
	cp := *v
	return &cp, nil
}

func (f *fakeVideoStore) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok || v.Visibility == model.VisibilityDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	f.lastUpdates = updates
	if t, ok := updates["title"].(string); ok {
		v.Title = t
	}
	if d, ok := updates["description"].(string); ok {
		v.Description = d
	}
	if cat, ok := updates["category"].(string); ok {
		v.Category = cat
	}
	if tags, ok := updates["tags"].(string); ok {
		_ = json.Unmarshal([]byte(tags), &v.Tags)
	}
	if vis, ok := updates["visibility"].(string); ok {
		v.Visibility = vis
	}
	v.UpdatedAt = time.Now()
	return v, nil
}

func (f *fakeVideoStore) SoftDelete(id int64) error {
	v, ok := f.videos[id]
	if !ok || v.Visibility == model.VisibilityDeleted {
		return gorm.ErrRecordNotFound
	}
	v.Visibility = model.VisibilityDeleted
	return nil
}

func (f *fakeVideoStore) List(skip, limit int, opts repository.VideoListOptions) ([]model.Video, int64, error) {
	f.lastListOpts = &opts
	var out []model.Video
	for _, v := range f.videos {
		if v.Visibility == model.VisibilityDeleted {
			continue
		}
		if opts.Visibility != nil && v.Visibility != *opts.Visibility {
			continue
		}
		if opts.OwnerID != nil && v.OwnerID != *opts.OwnerID {
			continue
		}
		if opts.Category != nil && v.Category != *opts.Category {
			continue
		}
		if opts.Search != nil && !matchesSearch(v, *opts.Search) {
			continue
		}
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if skip >= len(out) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

// matchesSearch 与仓储层 ILIKE 语义保持一致：标题/描述/标签 不区分大小写子串匹配
func matchesSearch(v *model.Video, search string) bool {
	needle := strings.ToLower(search)
	haystacks := []string{v.Title, v.Description, strings.Join(v.Tags, ",")}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func (f *fakeVideoStore) GetByIDsWithOwner(ids []int64) ([]model.Video, error) {
	var out []model.Video
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideoStore) IncrementViews(id int64) error {
	v, ok := f.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Views++
	return nil
}

func (f *fakeVideoStore) IncrementPlays(id int64) error {
	v, ok := f.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Plays++
	f.playsIncr[id]++
	return nil
}

type fakeRoleStore struct {
	roles map[int64]string
}

func (f *fakeRoleStore) RoleOf(userID int64) (string, error) {
	role, ok := f.roles[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return role, nil
}

type fakeBackend struct {
	saved       map[string]string
	removed     []string
	failOnKind  string
	saveFailErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{saved: make(map[string]string)}
}

func (f *fakeBackend) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.failOnKind != "" && strings.HasPrefix(key, f.failOnKind+"/") {
		return f.saveFailErr
	}
	data, _ := io.ReadAll(r)
	f.saved[key] = string(data)
	return nil
}

func (f *fakeBackend) Remove(ctx context.Context, key string) error {
	delete(f.saved, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeBackend) Open(ctx context.Context, key string) (storage.File, time.Time, error) {
	panic("not used in tests")
}

type fakeEvents struct {
	published []*infraKafka.VideoEvent
	err       error
}

func (f *fakeEvents) PublishVideoEvent(ctx context.Context, event *infraKafka.VideoEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func ptr[T any](v T) *T { return &v }

func newTestVideoService(videos *fakeVideoStore, roles *fakeRoleStore, backend *fakeBackend, events *fakeEvents) *VideoService {
	if roles == nil {
		roles = &fakeRoleStore{roles: map[int64]string{}}
	}
	var pub EventPublisher
	if events != nil {
		pub = events
	}
	return NewVideoService(videos, roles, backend, pub, nil)
}

func uploadReq() *dto.VideoUploadRequest {
	return &dto.VideoUploadRequest{
		Title:    "test clip",
		Category: "tutorial",
		Tags:     "go, web",
	}
}

func videoFile() UploadFile {
	return UploadFile{
		Reader:      strings.NewReader("video-bytes"),
		Size:        11,
		ContentType: "video/mp4",
		Filename:    "clip.mp4",
	}
}

// --- upload ---

func TestUploadSuccess(t *testing.T) {
	videos := newFakeVideoStore()
	backend := newFakeBackend()
	events := &fakeEvents{}
	svc := newTestVideoService(videos, nil, backend, events)

	thumb := &UploadFile{Reader: strings.NewReader("img"), Size: 3, ContentType: "image/jpeg", Filename: "cover.jpg"}
	data, err := svc.Upload(context.Background(), 1, uploadReq(), videoFile(), thumb)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if data.ID == 0 {
		t.Error("uploaded video should get an id")
	}
	if data.Visibility != model.VisibilityPublic {
		t.Errorf("default visibility = %q, want public", data.Visibility)
	}
	if data.ProcessingStatus != model.StatusCompleted {
		t.Errorf("processing status = %q, want completed", data.ProcessingStatus)
	}
	if len(data.Tags) != 2 || data.Tags[0] != "go" || data.Tags[1] != "web" {
		t.Errorf("tags = %v, want [go web]", data.Tags)
	}
	if data.ThumbnailURL == "" {
		t.Error("thumbnail_url should be set when a thumbnail was uploaded")
	}
	if len(backend.saved) != 2 {
		t.Errorf("saved %d objects, want 2", len(backend.saved))
	}
	if len(events.published) != 1 || events.published[0].Type != infraKafka.EventVideoCreated {
		t.Errorf("expected one created event, got %+v", events.published)
	}
}

func TestUploadPrivate(t *testing.T) {
	svc := newTestVideoService(newFakeVideoStore(), nil, newFakeBackend(), nil)

	req := uploadReq()
	req.IsPublic = ptr(false)
	data, err := svc.Upload(context.Background(), 1, req, videoFile(), nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if data.Visibility != model.VisibilityPrivate {
		t.Errorf("visibility = %q, want private", data.Visibility)
	}
	if data.ThumbnailURL != "" {
		t.Error("thumbnail_url should be empty without a thumbnail")
	}
}

func TestUploadCleanupOnCreateFailure(t *testing.T) {
	videos := newFakeVideoStore()
	videos.createErr = errors.New("db down")
	backend := newFakeBackend()
	svc := newTestVideoService(videos, nil, backend, nil)

	thumb := &UploadFile{Reader: strings.NewReader("img"), Size: 3, ContentType: "image/jpeg", Filename: "cover.jpg"}
	_, err := svc.Upload(context.Background(), 1, uploadReq(), videoFile(), thumb)
	if err == nil {
		t.Fatal("Upload should fail when record creation fails")
	}

	if len(backend.saved) != 0 {
		t.Errorf("all stored objects should be removed, %d left", len(backend.saved))
	}
	if len(backend.removed) != 2 {
		t.Errorf("removed %d objects, want 2", len(backend.removed))
	}
}

func TestUploadCleanupOnThumbnailFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failOnKind = "thumbnails"
	backend.saveFailErr = errors.New("disk full")
	svc := newTestVideoService(newFakeVideoStore(), nil, backend, nil)

	thumb := &UploadFile{Reader: strings.NewReader("img"), Size: 3, ContentType: "image/jpeg", Filename: "cover.jpg"}
	_, err := svc.Upload(context.Background(), 1, uploadReq(), videoFile(), thumb)
	if err == nil {
		t.Fatal("Upload should fail when thumbnail save fails")
	}

	if len(backend.saved) != 0 {
		t.Errorf("video file should be removed after thumbnail failure, %d objects left", len(backend.saved))
	}
}

// --- detail ---

func publicVideo(id, owner int64) *model.Video {
	return &model.Video{
		ID:         id,
		OwnerID:    owner,
		Title:      "clip",
		Category:   "tutorial",
		Visibility: model.VisibilityPublic,
		Views:      10,
	}
}

func TestGetDetailIncrementsViews(t *testing.T) {
	videos := newFakeVideoStore(publicVideo(1, 1))
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	info, err := svc.GetDetail(1, nil)
	if err != nil {
		t.Fatalf("GetDetail failed: %v", err)
	}
	if info.Views != 11 {
		t.Errorf("views = %d, want 11 (post-increment)", info.Views)
	}
	if info.PlayURL == "" {
		t.Error("detail should carry play_url")
	}
}

func TestGetDetailPrivateVisibility(t *testing.T) {
	v := publicVideo(1, 1)
	v.Visibility = model.VisibilityPrivate
	videos := newFakeVideoStore(v)
	roles := &fakeRoleStore{roles: map[int64]string{9: model.RoleAdmin}}
	svc := newTestVideoService(videos, roles, newFakeBackend(), nil)

	if _, err := svc.GetDetail(1, nil); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("anonymous access to private video: err = %v, want ErrVideoNotFound", err)
	}

	other := int64(2)
	if _, err := svc.GetDetail(1, &other); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("other user access to private video: err = %v, want ErrVideoNotFound", err)
	}

	owner := int64(1)
	info, err := svc.GetDetail(1, &owner)
	if err != nil {
		t.Fatalf("owner access to private video failed: %v", err)
	}
	if info.Views != 10 {
		t.Errorf("views = %d, owner access must not count a view", info.Views)
	}

	admin := int64(9)
	if _, err := svc.GetDetail(1, &admin); err != nil {
		t.Errorf("admin access to private video failed: %v", err)
	}
}

func TestGetDetailDeletedVisibleToOwnerOnly(t *testing.T) {
	v := publicVideo(1, 1)
	v.Visibility = model.VisibilityDeleted
	svc := newTestVideoService(newFakeVideoStore(v), nil, newFakeBackend(), nil)

	if _, err := svc.GetDetail(1, nil); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("anonymous access to deleted video: err = %v, want ErrVideoNotFound", err)
	}

	owner := int64(1)
	info, err := svc.GetDetail(1, &owner)
	if err != nil {
		t.Fatalf("owner audit access to deleted video failed: %v", err)
	}
	if info.Visibility != model.VisibilityDeleted {
		t.Errorf("visibility = %q, want deleted", info.Visibility)
	}
}

// --- update ---

func TestUpdatePartial(t *testing.T) {
	v := publicVideo(1, 1)
	v.Description = "old description"
	videos := newFakeVideoStore(v)
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	info, err := svc.Update(context.Background(), 1, 1, &dto.VideoUpdateRequest{Title: ptr("new title")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if info.Title != "new title" {
		t.Errorf("title = %q, want %q", info.Title, "new title")
	}
	if info.Description != "old description" {
		t.Errorf("description = %q, omitted field must stay unchanged", info.Description)
	}
}

func TestUpdateExplicitEmptyDescription(t *testing.T) {
	v := publicVideo(1, 1)
	v.Description = "old description"
	svc := newTestVideoService(newFakeVideoStore(v), nil, newFakeBackend(), nil)

	info, err := svc.Update(context.Background(), 1, 1, &dto.VideoUpdateRequest{Description: ptr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if info.Description != "" {
		t.Errorf("description = %q, explicit empty string must clear it", info.Description)
	}
}

func TestUpdateReparsesTags(t *testing.T) {
	videos := newFakeVideoStore(publicVideo(1, 1))
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	info, err := svc.Update(context.Background(), 1, 1, &dto.VideoUpdateRequest{Tags: ptr(" a , b ,,c ")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(info.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", info.Tags, want)
	}
	for i := range want {
		if info.Tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", info.Tags, want)
		}
	}
}

func TestUpdateNoFields(t *testing.T) {
	svc := newTestVideoService(newFakeVideoStore(publicVideo(1, 1)), nil, newFakeBackend(), nil)

	_, err := svc.Update(context.Background(), 1, 1, &dto.VideoUpdateRequest{})
	if !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Errorf("err = %v, want ErrNoFieldsToUpdate", err)
	}
}

func TestUpdateForbiddenLeavesVideoUnchanged(t *testing.T) {
	v := publicVideo(1, 1)
	videos := newFakeVideoStore(v)
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	_, err := svc.Update(context.Background(), 1, 2, &dto.VideoUpdateRequest{Title: ptr("hijacked")})
	if !errors.Is(err, ErrVideoForbidden) {
		t.Fatalf("err = %v, want ErrVideoForbidden", err)
	}
	if v.Title != "clip" {
		t.Errorf("title = %q, forbidden update must not modify the record", v.Title)
	}
	if videos.lastUpdates != nil {
		t.Error("store update must not be attempted on forbidden request")
	}
}

func TestUpdateByAdmin(t *testing.T) {
	roles := &fakeRoleStore{roles: map[int64]string{9: model.RoleAdmin}}
	svc := newTestVideoService(newFakeVideoStore(publicVideo(1, 1)), roles, newFakeBackend(), nil)

	info, err := svc.Update(context.Background(), 1, 9, &dto.VideoUpdateRequest{Title: ptr("moderated")})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if info.Title != "moderated" {
		t.Errorf("title = %q, want %q", info.Title, "moderated")
	}
}

// --- delete ---

func TestDeleteSoft(t *testing.T) {
	v := publicVideo(1, 1)
	videos := newFakeVideoStore(v)
	events := &fakeEvents{}
	svc := newTestVideoService(videos, nil, newFakeBackend(), events)

	if err := svc.Delete(context.Background(), 1, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if v.Visibility != model.VisibilityDeleted {
		t.Errorf("visibility = %q, want deleted", v.Visibility)
	}
	if len(events.published) != 1 || events.published[0].Type != infraKafka.EventVideoDeleted {
		t.Errorf("expected one deleted event, got %+v", events.published)
	}

	// 已删除视频再删一次 404
	if err := svc.Delete(context.Background(), 1, 1); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("second delete: err = %v, want ErrVideoNotFound", err)
	}
}

func TestDeleteForbidden(t *testing.T) {
	v := publicVideo(1, 1)
	svc := newTestVideoService(newFakeVideoStore(v), nil, newFakeBackend(), nil)

	if err := svc.Delete(context.Background(), 1, 2); !errors.Is(err, ErrVideoForbidden) {
		t.Errorf("err = %v, want ErrVideoForbidden", err)
	}
	if v.Visibility != model.VisibilityPublic {
		t.Error("forbidden delete must not modify the record")
	}
}

// --- list ---

func TestListOnlyPublic(t *testing.T) {
	private := publicVideo(2, 1)
	private.Visibility = model.VisibilityPrivate
	deleted := publicVideo(3, 1)
	deleted.Visibility = model.VisibilityDeleted
	videos := newFakeVideoStore(publicVideo(1, 1), private, deleted)
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	data, err := svc.List(&dto.VideoListRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if data.Total != 1 || len(data.Videos) != 1 {
		t.Fatalf("got %d/%d videos, want exactly the public one", len(data.Videos), data.Total)
	}
	if data.Videos[0].ID != 1 {
		t.Errorf("listed video id = %d, want 1", data.Videos[0].ID)
	}
	if data.Videos[0].PlayURL != "" {
		t.Error("list entries must not carry play_url")
	}
}

func TestListNormalizesPaging(t *testing.T) {
	svc := newTestVideoService(newFakeVideoStore(), nil, newFakeBackend(), nil)

	data, err := svc.List(&dto.VideoListRequest{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if data.Page != 1 || data.Limit != 10 {
		t.Errorf("page/limit = %d/%d, want defaults 1/10", data.Page, data.Limit)
	}

	data, err = svc.List(&dto.VideoListRequest{Page: 1, Limit: 5000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if data.Limit != 100 {
		t.Errorf("limit = %d, want capped at 100", data.Limit)
	}
}

func TestListCategoryAndSearch(t *testing.T) {
	base := time.Now()
	titleMatch := publicVideo(1, 1)
	titleMatch.Category = "music"
	titleMatch.Title = "Jazz Classics"
	titleMatch.CreatedAt = base.Add(-2 * time.Hour)
	tagMatch := publicVideo(2, 1)
	tagMatch.Category = "music"
	tagMatch.Title = "Morning mix"
	tagMatch.Tags = []string{"jazz", "piano"}
	tagMatch.CreatedAt = base.Add(-time.Hour)
	otherCategory := publicVideo(3, 1)
	otherCategory.Category = "gaming"
	otherCategory.Description = "jazz in the background"
	otherCategory.CreatedAt = base
	noMatch := publicVideo(4, 1)
	noMatch.Category = "music"
	noMatch.CreatedAt = base
	private := publicVideo(5, 1)
	private.Category = "music"
	private.Title = "jazz session"
	private.Visibility = model.VisibilityPrivate
	private.CreatedAt = base

	videos := newFakeVideoStore(titleMatch, tagMatch, otherCategory, noMatch, private)
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	data, err := svc.List(&dto.VideoListRequest{Category: "music", Search: "JAZZ"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if data.Total != 2 || len(data.Videos) != 2 {
		t.Fatalf("got %d/%d videos, want the two public music matches", len(data.Videos), data.Total)
	}
	if data.Videos[0].ID != 2 || data.Videos[1].ID != 1 {
		t.Errorf("order = [%d %d], want newest first [2 1]", data.Videos[0].ID, data.Videos[1].ID)
	}

	opts := videos.lastListOpts
	if opts == nil {
		t.Fatal("store was not queried")
	}
	if opts.Visibility == nil || *opts.Visibility != model.VisibilityPublic {
		t.Error("list must filter on public visibility")
	}
	if opts.Category == nil || *opts.Category != "music" {
		t.Error("category filter not passed to the store")
	}
	if opts.Search == nil || *opts.Search != "JAZZ" {
		t.Error("search term not passed to the store")
	}
}

func TestListCategoryAllMeansNoFilter(t *testing.T) {
	v := publicVideo(1, 1)
	v.Category = "music"
	videos := newFakeVideoStore(v)
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	data, err := svc.List(&dto.VideoListRequest{Category: "all"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if data.Total != 1 {
		t.Errorf("total = %d, want 1", data.Total)
	}
	if videos.lastListOpts == nil || videos.lastListOpts.Category != nil {
		t.Error(`category "all" must not reach the store as a filter`)
	}
}

func TestMyVideosIncludesPrivate(t *testing.T) {
	private := publicVideo(2, 1)
	private.Visibility = model.VisibilityPrivate
	videos := newFakeVideoStore(publicVideo(1, 1), private, publicVideo(3, 2))
	svc := newTestVideoService(videos, nil, newFakeBackend(), nil)

	data, err := svc.MyVideos(1, 1, 10)
	if err != nil {
		t.Fatalf("MyVideos failed: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("total = %d, want both own videos regardless of visibility", data.Total)
	}
}
