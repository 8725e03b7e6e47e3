package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maguoyu/IASMind-sub001/model"
	"github.com/maguoyu/IASMind-sub001/service"
)

type CallbackHandler struct {
	extractService *service.ExtractService
	store          *service.ContractStore
}

func NewCallbackHandler(extractSvc *service.ExtractService) *CallbackHandler {
	return &CallbackHandler{
		extractService: extractSvc,
		store:          service.GetContractStore(),
	}
}

type CallbackRequest struct {
	Checksum string `json:"checksum"`
	Content  string `json:"content"`
}

type CallbackContent struct {
	TaskID     string `json:"task_id"`
	DataID     string `json:"data_id"`
	State      string `json:"state"`
	FullZipURL string `json:"full_zip_url"`
	ErrorMsg   string `json:"err_msg"`
}

// HandleCallback receives the completion callback from the extraction service
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Parse content
	var content CallbackContent
	if err := json.Unmarshal([]byte(req.Content), &content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content format"})
		return
	}

	// Find contract by DataID (which is our contractID)
	contract := h.store.Get(content.DataID)
	if contract == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	if !h.extractService.VerifyCallback(req.Checksum, req.Content, content.DataID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid checksum"})
		return
	}

	// Update contract based on callback
	switch content.State {
	case "done":
		if content.FullZipURL == "" {
			h.store.UpdateStatus(contract.ID, model.StatusFailed, "Extraction produced no result")
			break
		}
		text, err := h.extractService.FetchZipAndExtractText(content.FullZipURL)
		if err != nil {
			h.store.UpdateStatus(contract.ID, model.StatusFailed, "Failed to fetch text: "+err.Error())
		} else {
			h.store.UpdateText(contract.ID, text)
		}
	case "failed":
		h.store.UpdateStatus(contract.ID, model.StatusFailed, content.ErrorMsg)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Callback received"})
}
