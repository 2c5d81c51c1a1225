package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/model"
)

const (
	maxUploadBytes = 10 << 20
	maxBatchSize   = 10
)

var supportedImageFormats = []string{"jpg", "jpeg", "png", "webp", "heic"}

// ImageUploader é a fatia do cliente de mídia que o serviço usa;
// os testes injetam um stub.
type ImageUploader interface {
	UploadImage(ctx context.Context, image io.Reader, folder, publicID string) (*model.UploadedImage, error)
	DestroyImage(ctx context.Context, publicID string) (bool, error)
	CloudName() string
}

// UploadService envia fotos de atendimento ao serviço de mídia
// hospedado, organizadas por usuário e atendimento.
type UploadService struct {
	media ImageUploader
}

func NewUploadService(media ImageUploader) *UploadService {
	return &UploadService{media: media}
}

func (s *UploadService) Configured() bool {
	return s.media != nil
}

func uploadFolder(userID, atendimentoID string) string {
	return fmt.Sprintf("climapp/atendimentos/%s/%s", userID, atendimentoID)
}

func uploadPublicID(index int) string {
	return fmt.Sprintf("foto_%d_%d", time.Now().UnixMilli(), index)
}

func validateUploadParams(userID, atendimentoID string) error {
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{Code: "MISSING_USER_ID", Message: "userId é obrigatório"}
	}
	if strings.TrimSpace(atendimentoID) == "" {
		return &ValidationError{Code: "MISSING_ATENDIMENTO_ID", Message: "atendimentoId é obrigatório"}
	}
	return nil
}

// UploadSingle envia uma imagem e devolve a URL transformada.
func (s *UploadService) UploadSingle(ctx context.Context, userID, atendimentoID string, file *multipart.FileHeader) (*model.UploadedImage, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: serviço de mídia ausente", client.ErrNotConfigured)
	}
	if err := validateUploadParams(userID, atendimentoID); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, &ValidationError{Code: "MISSING_FILE", Message: "Nenhuma imagem enviada"}
	}
	if file.Size > maxUploadBytes {
		return nil, &ValidationError{Code: "FILE_TOO_LARGE", Message: "Imagem excede o limite de 10MB"}
	}

	content, err := readUpload(file)
	if err != nil {
		return nil, err
	}
	return s.media.UploadImage(ctx, bytes.NewReader(content), uploadFolder(userID, atendimentoID), uploadPublicID(0))
}

// UploadBatch envia até 10 imagens em paralelo. Cada item carrega o
// próprio desfecho; o chamador decide o status do lote pelo campo
// Failed.
func (s *UploadService) UploadBatch(ctx context.Context, userID, atendimentoID string, files []*multipart.FileHeader) (*model.BatchUploadData, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: serviço de mídia ausente", client.ErrNotConfigured)
	}
	if err := validateUploadParams(userID, atendimentoID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &ValidationError{Code: "MISSING_FILE", Message: "Nenhuma imagem enviada"}
	}
	if len(files) > maxBatchSize {
		return nil, &ValidationError{
			Code:    "TOO_MANY_FILES",
			Message: fmt.Sprintf("Máximo de %d imagens por lote", maxBatchSize),
		}
	}

	folder := uploadFolder(userID, atendimentoID)
	items := make([]model.BatchUploadItem, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(index int, file *multipart.FileHeader) {
			defer wg.Done()
			items[index] = s.uploadOne(ctx, folder, index, file)
		}(i, file)
	}
	wg.Wait()

	failed := 0
	for _, item := range items {
		if !item.Success {
			failed++
		}
	}
	return &model.BatchUploadData{
		Images: items,
		Count:  len(items) - failed,
		Failed: failed,
	}, nil
}

func (s *UploadService) uploadOne(ctx context.Context, folder string, index int, file *multipart.FileHeader) model.BatchUploadItem {
	item := model.BatchUploadItem{Index: index, FileName: file.Filename}

	if file.Size > maxUploadBytes {
		item.Error = "Imagem excede o limite de 10MB"
		return item
	}
	content, err := readUpload(file)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	image, err := s.media.UploadImage(ctx, bytes.NewReader(content), folder, uploadPublicID(index))
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.Success = true
	item.Image = image
	return item
}

// Delete remove a imagem do serviço de mídia pelo publicId.
func (s *UploadService) Delete(ctx context.Context, publicID string) error {
	if !s.Configured() {
		return fmt.Errorf("%w: serviço de mídia ausente", client.ErrNotConfigured)
	}
	if strings.TrimSpace(publicID) == "" {
		return &ValidationError{Code: "MISSING_PUBLIC_ID", Message: "publicId é obrigatório"}
	}

	removed, err := s.media.DestroyImage(ctx, publicID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *UploadService) Status(baseURL string) model.UploadStatusData {
	configured := s.Configured()
	status := "operational"
	cloudName := ""
	if configured {
		cloudName = s.media.CloudName()
	} else {
		status = "not_configured"
	}

	return model.UploadStatusData{
		MediaConfigured:  configured,
		CloudName:        cloudName,
		MaxFileSize:      "10MB",
		SupportedFormats: supportedImageFormats,
		Endpoints: map[string]string{
			"upload":          baseURL + "/api/upload/foto",
			"upload_multiple": baseURL + "/api/upload/fotos",
			"delete":          baseURL + "/api/upload/foto",
		},
		Status: status,
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
}
