package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maguoyu/IASMind-sub001/middleware"
	"github.com/maguoyu/IASMind-sub001/model"
	"github.com/maguoyu/IASMind-sub001/pkg/logger"
	"github.com/maguoyu/IASMind-sub001/service"
)

type ContractHandler struct {
	minioService   *service.MinioService
	extractService *service.ExtractService
	store          *service.ContractStore
}

func NewContractHandler(minioSvc *service.MinioService, extractSvc *service.ExtractService) *ContractHandler {
	return &ContractHandler{
		minioService:   minioSvc,
		extractService: extractSvc,
		store:          service.GetContractStore(),
	}
}

// Upload handles contract file upload. Plain-text files skip the external
// extraction service; PDF and DOCX go through it asynchronously.
func (h *ContractHandler) Upload(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType := ""
	switch ext {
	case ".pdf":
		contentType = "application/pdf"
	case ".docx":
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		contentType = "text/plain; charset=utf-8"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF, DOCX and TXT files are allowed"})
		return
	}

	// A .pdf name with a non-PDF declared type gets sniffed: reject files
	// whose leading bytes clearly belong to another format.
	declaredType := header.Header.Get("Content-Type")
	if ext == ".pdf" && declaredType != "" && declaredType != "application/octet-stream" && !strings.Contains(declaredType, "pdf") {
		buffer := make([]byte, 512)
		if _, err := file.Read(buffer); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}

		detectedType := http.DetectContentType(buffer)
		if !strings.Contains(detectedType, "pdf") && detectedType != "application/octet-stream" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
			return
		}
	}

	var text string
	if ext == ".txt" {
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		text = string(data)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
	}

	contractID := uuid.New().String()
	objectName := fmt.Sprintf("%s/%s/%s", tenant, contractID, header.Filename)

	err = h.minioService.UploadFile(c.Request.Context(), objectName, file, header.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file: " + err.Error()})
		return
	}

	sourceURL, err := h.minioService.GetPresignedURL(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	contract := &model.Contract{
		ID:        contractID,
		Filename:  header.Filename,
		Tenant:    tenant,
		SourceURL: sourceURL,
		Status:    model.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	h.store.Save(contract)

	if text != "" {
		// Plain text is ready for analysis immediately.
		h.store.UpdateText(contractID, text)
	} else {
		go h.runExtractTask(contract, sourceURL)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       contractID,
		"filename": header.Filename,
		"status":   h.store.Get(contractID).Status,
	})
}

// runExtractTask drives the external extraction task for one contract
func (h *ContractHandler) runExtractTask(contract *model.Contract, sourceURL string) {
	ctx := context.WithValue(context.Background(), logger.ContractIDKey, contract.ID)
	ctx = context.WithValue(ctx, logger.TenantKey, contract.Tenant)

	h.store.UpdateStatus(contract.ID, model.StatusProcessing, "")

	resp, err := h.extractService.CreateTask(sourceURL, contract.ID)
	if err != nil {
		logger.Error(ctx, "failed to create extract task", "error", err)
		h.store.UpdateStatus(contract.ID, model.StatusFailed, err.Error())
		return
	}

	logger.Info(ctx, "extract task created", "task_id", resp.Data.TaskID)
	contract.ExtractTaskID = resp.Data.TaskID
	h.store.Save(contract)

	h.pollTaskResult(ctx, contract)
}

// pollTaskResult polls for task completion
func (h *ContractHandler) pollTaskResult(ctx context.Context, contract *model.Contract) {
	maxAttempts := 60 // 5 minutes with 5 second intervals
	for i := 0; i < maxAttempts; i++ {
		time.Sleep(5 * time.Second)

		status, err := h.extractService.GetTaskStatus(contract.ExtractTaskID)
		if err != nil {
			logger.Warn(ctx, "extract poll attempt failed", "attempt", i+1, "error", err)
			continue
		}

		switch status.Data.State {
		case "done":
			if status.Data.FullZipURL == "" {
				h.store.UpdateStatus(contract.ID, model.StatusFailed, "Extraction produced no result")
				return
			}
			text, err := h.extractService.FetchZipAndExtractText(status.Data.FullZipURL)
			if err != nil {
				logger.Error(ctx, "failed to fetch extracted text", "error", err)
				h.store.UpdateStatus(contract.ID, model.StatusFailed, "Failed to fetch text: "+err.Error())
				return
			}
			logger.Info(ctx, "contract text extracted", "chars", len(text))
			h.store.UpdateText(contract.ID, text)
			return
		case "failed":
			logger.Error(ctx, "extract task failed", "error_msg", status.Data.ErrorMsg)
			h.store.UpdateStatus(contract.ID, model.StatusFailed, status.Data.ErrorMsg)
			return
		}
	}

	logger.Error(ctx, "extract task polling timeout")
	h.store.UpdateStatus(contract.ID, model.StatusFailed, "Task polling timeout")
}

// List returns all contracts for the current tenant
func (h *ContractHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	contracts := h.store.GetByTenant(tenant)

	// Return without contract text for list view
	result := make([]gin.H, len(contracts))
	for i, contract := range contracts {
		result[i] = gin.H{
			"id":         contract.ID,
			"filename":   contract.Filename,
			"status":     contract.Status,
			"created_at": contract.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"updated_at": contract.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, gin.H{"contracts": result})
}

// Get returns a single contract including its extracted text
func (h *ContractHandler) Get(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	contract := h.store.Get(id)
	if contract == nil || contract.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// GetStatus returns the processing status of a contract
func (h *ContractHandler) GetStatus(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	contract := h.store.Get(id)
	if contract == nil || contract.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        contract.ID,
		"status":    contract.Status,
		"error_msg": contract.ErrorMsg,
	})
}

// Delete deletes a contract
func (h *ContractHandler) Delete(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	contract := h.store.Get(id)
	if contract == nil || contract.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	h.store.Delete(id)

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}
