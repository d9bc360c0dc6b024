package service

import (
	"context"
	"path"
	"strings"

	"go.uber.org/zap"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
	"success-sprout/internal/storage"
	"success-sprout/pkg/utils"
)

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type ResumeUploadInput struct {
	FileName string `json:"fileName" binding:"required,max=255"`
}

type ResumeConfirmInput struct {
	Key string `json:"key" binding:"required,max=255"`
}

type PresignedURL struct {
	Method      string `json:"method"`
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType,omitempty"`
}

// ResumeService 简历走对象存储直传，API 只签发 URL；
// 客户端上传后调用 ConfirmUpload，核实对象存在才记录 key
type ResumeService struct {
	store storage.Presigner
	users domain.UserRepository
	log   *zap.Logger
}

func NewResumeService(store storage.Presigner, users domain.UserRepository, log *zap.Logger) *ResumeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResumeService{store: store, users: users, log: log}
}

func (s *ResumeService) UploadURL(ctx context.Context, caller *domain.User, in ResumeUploadInput) (*PresignedURL, error) {
	if s.store == nil {
		return nil, apperr.GatewayUnavailable("resume storage not configured", nil)
	}
	ext := strings.ToLower(path.Ext(strings.TrimSpace(in.FileName)))
	ct, ok := resumeTypes[ext]
	if !ok {
		return nil, apperr.Validation("resume must be a .pdf, .doc or .docx file")
	}
	key := "resumes/" + caller.ID + "/" + utils.NewID() + ext
	url, err := s.store.PresignPut(ctx, key, ct)
	if err != nil {
		return nil, apperr.GatewayUnavailable("presign upload failed", err)
	}
	s.log.Info("resume upload url issued", zap.String("user_id", caller.ID), zap.String("key", key))
	return &PresignedURL{Method: "PUT", URL: url, Key: key, ContentType: ct}, nil
}

// ConfirmUpload 只接受本人前缀下、已存在的对象；旧 key 在此时才被替换
func (s *ResumeService) ConfirmUpload(ctx context.Context, caller *domain.User, in ResumeConfirmInput) (*PresignedURL, error) {
	if s.store == nil {
		return nil, apperr.GatewayUnavailable("resume storage not configured", nil)
	}
	key := strings.TrimSpace(in.Key)
	name := strings.TrimPrefix(key, "resumes/"+caller.ID+"/")
	if name == key || name == "" || strings.Contains(name, "/") {
		return nil, apperr.Forbidden("resume key does not belong to caller")
	}
	if _, ok := resumeTypes[path.Ext(name)]; !ok {
		return nil, apperr.Validation("resume must be a .pdf, .doc or .docx file")
	}
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, apperr.GatewayUnavailable("check resume upload failed", err)
	}
	if !ok {
		return nil, apperr.Validation("resume not uploaded yet")
	}
	if err := s.users.SetResumeKey(ctx, caller.ID, key); err != nil {
		return nil, err
	}
	s.log.Info("resume upload confirmed", zap.String("user_id", caller.ID), zap.String("key", key))
	return &PresignedURL{Key: key}, nil
}

// DownloadURL 本人、招聘方与管理员可读
func (s *ResumeService) DownloadURL(ctx context.Context, caller *domain.User, userID string) (*PresignedURL, error) {
	if s.store == nil {
		return nil, apperr.GatewayUnavailable("resume storage not configured", nil)
	}
	if userID == "" {
		userID = caller.ID
	}
	if userID != caller.ID && caller.Role == domain.RoleStudent {
		return nil, apperr.Forbidden("cannot read another student's resume")
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	if u.ResumeKey == "" {
		return nil, apperr.NotFound("no resume uploaded")
	}
	url, err := s.store.PresignGet(ctx, u.ResumeKey)
	if err != nil {
		return nil, apperr.GatewayUnavailable("presign download failed", err)
	}
	return &PresignedURL{Method: "GET", URL: url, Key: u.ResumeKey}, nil
}
