package api

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"net/http"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/database"
	"mekanis/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MiB

// assetKind maps an upload kind to its key prefix, accepted extensions and
// the record column the key is stored in.
type assetKind struct {
	prefix     string
	extensions map[string]bool
}

var assetKinds = map[string]assetKind{
	"cv": {
		prefix:     storage.PrefixCV,
		extensions: map[string]bool{".pdf": true, ".doc": true, ".docx": true},
	},
	"avatar": {
		prefix:     storage.PrefixAvatar,
		extensions: map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true},
	},
	"logo": {
		prefix:     storage.PrefixLogo,
		extensions: map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true},
	},
}

// AssetHandler handles CV, avatar and logo uploads. Every file is scanned
// through clamd before it reaches the bucket, and the stored key replaces
// the previous one on the owning record.
type AssetHandler struct {
	db        *gorm.DB
	storage   *storage.Client
	logger    *slog.Logger
	clamdAddr string
}

// NewAssetHandler builds the handler.
func NewAssetHandler(db *gorm.DB, storageClient *storage.Client, logger *slog.Logger, clamdAddr string) *AssetHandler {
	return &AssetHandler{db: db, storage: storageClient, logger: logger, clamdAddr: clamdAddr}
}

// UploadAsset stores one uploaded file under the caller's key namespace.
// The kind path parameter selects cv, avatar or logo.
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	kind, ok := assetKinds[c.Param("kind")]
	if !ok {
		BadRequest(c, "unknown asset kind")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		BadRequest(c, "file too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !kind.extensions[ext] {
		BadRequest(c, "unsupported file type")
		return
	}

	log := middleware.LoggerFromContext(c)

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}

	clamdClient := clamd.NewClamd(h.clamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
	fileReader.Close()
	if err != nil {
		log.Error("scan file failed", slog.Any("error", err))
		Internal(c, "failed to scan file")
		return
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	fileReader, err = file.Open()
	if err != nil {
		Internal(c, "failed to reopen file")
		return
	}
	defer fileReader.Close()

	objectKey := storage.NewObjectKey(kind.prefix, userID, ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx := c.Request.Context()
	if _, err := h.storage.UploadFile(ctx, objectKey, fileReader, file.Size, contentType); err != nil {
		log.Error("upload file failed", slog.Any("error", err))
		Internal(c, "failed to upload file")
		return
	}

	oldKey, err := h.recordKey(c, userID, c.Param("kind"), objectKey)
	if err != nil {
		// the object is orphaned now, remove it so the bucket stays clean
		if derr := h.storage.DeleteObject(ctx, objectKey); derr != nil {
			log.Warn("cleanup orphaned object failed", slog.Any("error", derr))
		}
		return
	}
	if oldKey != "" && oldKey != objectKey {
		if err := h.storage.DeleteObject(ctx, oldKey); err != nil {
			log.Warn("delete replaced object failed", slog.Any("error", err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

// recordKey stores the new key on the owning record and returns the key it
// replaced. Error responses are written before returning.
func (h *AssetHandler) recordKey(c *gin.Context, userID uint, kind, objectKey string) (string, error) {
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	if kind == "logo" {
		var company database.Company
		if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				Forbidden(c, "employer company profile required")
			} else {
				log.Error("load company failed", slog.Any("error", err))
				Internal(c, "internal error")
			}
			return "", err
		}
		if err := h.db.WithContext(ctx).Model(&company).Update("logo_key", objectKey).Error; err != nil {
			log.Error("store logo key failed", slog.Any("error", err))
			Internal(c, "failed to save upload")
			return "", err
		}
		return company.LogoKey, nil
	}

	var prof database.CandidateProfile
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Forbidden(c, "candidate profile required")
		} else {
			log.Error("load profile failed", slog.Any("error", err))
			Internal(c, "internal error")
		}
		return "", err
	}

	column, old := "resume_key", prof.ResumeKey
	if kind == "avatar" {
		column, old = "avatar_key", prof.AvatarKey
	}
	if err := h.db.WithContext(ctx).Model(&prof).Update(column, objectKey).Error; err != nil {
		log.Error("store object key failed", slog.Any("error", err))
		Internal(c, "failed to save upload")
		return "", err
	}
	return old, nil
}

// GetAssetURL returns a short-lived presigned URL for a key the caller owns.
func (h *AssetHandler) GetAssetURL(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}

	owned := false
	for _, kind := range assetKinds {
		if storage.OwnsObjectKey(kind.prefix, userID, objectKey) {
			owned = true
			break
		}
	}
	if !owned {
		Forbidden(c, "access denied")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate presigned url failed", slog.Any("error", err))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// GetApplicationResumeURL lets an employer fetch the CV attached to an
// application on one of their own listings.
func (h *AssetHandler) GetApplicationResumeURL(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	var app database.Application
	err := h.db.WithContext(ctx).
		Joins("JOIN job_listings ON job_listings.id = applications.job_listing_id").
		Joins("JOIN companies ON companies.id = job_listings.company_id").
		Where("applications.id = ? AND companies.user_id = ?", c.Param("appID"), userID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "application not found")
			return
		}
		middleware.LoggerFromContext(c).Error("load application failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if app.ResumeKey == "" {
		NotFound(c, "no resume attached")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(ctx, app.ResumeKey, 15*time.Minute)
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate presigned url failed", slog.Any("error", err))
		Internal(c, "failed to generate url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
