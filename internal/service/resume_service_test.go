package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"success-sprout/internal/core/apperr"
	"success-sprout/internal/domain"
)

type fakePresigner struct {
	fail    bool
	objects map[string]bool
}

func (f fakePresigner) PresignPut(_ context.Context, key, ct string) (string, error) {
	if f.fail {
		return "", errors.New("boom")
	}
	return "https://s3.local/put/" + key + "?ct=" + ct, nil
}

func (f fakePresigner) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.local/get/" + key, nil
}

func (f fakePresigner) Exists(_ context.Context, key string) (bool, error) {
	if f.fail {
		return false, errors.New("boom")
	}
	return f.objects[key], nil
}

func TestResume_UploadAndDownload(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := fakePresigner{objects: map[string]bool{}}
	svc := NewResumeService(store, e.users, nil)
	stu := e.user(t, domain.RoleStudent)
	peer := e.user(t, domain.RoleStudent)
	rec := e.user(t, domain.RoleRecruiter)

	_, err := svc.DownloadURL(ctx, stu, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UploadURL(ctx, stu, ResumeUploadInput{FileName: "cv.exe"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	up, err := svc.UploadURL(ctx, stu, ResumeUploadInput{FileName: "My CV.PDF"})
	require.NoError(t, err)
	assert.Equal(t, "PUT", up.Method)
	assert.Equal(t, "application/pdf", up.ContentType)
	assert.True(t, strings.HasPrefix(up.Key, "resumes/"+stu.ID+"/"))
	assert.True(t, strings.HasSuffix(up.Key, ".pdf"))

	// 签发 URL 不记录 key；对象落地并确认后才可下载
	_, err = svc.DownloadURL(ctx, stu, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.ConfirmUpload(ctx, stu, ResumeConfirmInput{Key: up.Key})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	store.objects[up.Key] = true
	_, err = svc.ConfirmUpload(ctx, stu, ResumeConfirmInput{Key: up.Key})
	require.NoError(t, err)

	down, err := svc.DownloadURL(ctx, stu, "")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/get/"+up.Key, down.URL)

	_, err = svc.DownloadURL(ctx, rec, stu.ID)
	require.NoError(t, err)
	_, err = svc.DownloadURL(ctx, peer, stu.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestResume_StorageErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	stu := e.user(t, domain.RoleStudent)

	_, err := NewResumeService(nil, e.users, nil).UploadURL(ctx, stu, ResumeUploadInput{FileName: "cv.pdf"})
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)

	_, err = NewResumeService(fakePresigner{fail: true}, e.users, nil).UploadURL(ctx, stu, ResumeUploadInput{FileName: "cv.docx"})
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
}

func TestResume_ConfirmKeepsPreviousUntilVerified(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := fakePresigner{objects: map[string]bool{}}
	svc := NewResumeService(store, e.users, nil)
	stu := e.user(t, domain.RoleStudent)
	peer := e.user(t, domain.RoleStudent)

	first, err := svc.UploadURL(ctx, stu, ResumeUploadInput{FileName: "cv.pdf"})
	require.NoError(t, err)
	store.objects[first.Key] = true
	_, err = svc.ConfirmUpload(ctx, stu, ResumeConfirmInput{Key: first.Key})
	require.NoError(t, err)

	// 新 URL 未上传时保留旧简历
	_, err = svc.UploadURL(ctx, stu, ResumeUploadInput{FileName: "cv2.docx"})
	require.NoError(t, err)
	got, err := e.users.FindByID(ctx, stu.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Key, got.ResumeKey)
	assert.True(t, got.Public().HasResume)

	for _, key := range []string{
		"resumes/" + peer.ID + "/x.pdf",
		"resumes/" + stu.ID + "/../" + peer.ID + "/x.pdf",
		"other/" + stu.ID + "/x.pdf",
		"resumes/" + stu.ID + "/",
	} {
		store.objects[key] = true
		_, err = svc.ConfirmUpload(ctx, stu, ResumeConfirmInput{Key: key})
		assert.ErrorIs(t, err, apperr.ErrForbidden, key)
	}

	exe := "resumes/" + stu.ID + "/x.exe"
	store.objects[exe] = true
	_, err = svc.ConfirmUpload(ctx, stu, ResumeConfirmInput{Key: exe})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = NewResumeService(fakePresigner{fail: true}, e.users, nil).
		ConfirmUpload(ctx, stu, ResumeConfirmInput{Key: "resumes/" + stu.ID + "/y.pdf"})
	assert.ErrorIs(t, err, apperr.ErrGatewayUnavailable)
}
