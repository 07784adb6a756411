package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/zigger-app/gig-backend/internal/http/handlers/common"
	"github.com/zigger-app/gig-backend/internal/service"
	"github.com/zigger-app/gig-backend/internal/storage"
)

// Разрешённые типы файлов для загрузки
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Назначения загрузки и соответствующие каталоги хранилища
var uploadKinds = map[string]storage.Kind{
	"profile": storage.KindProfile,
	"kyc":     storage.KindKyc,
	"proof":   storage.KindProof,
}

// MediaHandler отвечает за загрузку изображений: фото профиля, документы KYC
// и фотоотчёты по заданиям.
type MediaHandler struct {
	storage *storage.PhotoStorage
	gigs    *service.GigService
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(st *storage.PhotoStorage, gigs *service.GigService) *MediaHandler {
	return &MediaHandler{storage: st, gigs: gigs}
}

// Upload обрабатывает POST /media/upload?kind=profile|kyc|proof.
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	kind, ok := uploadKinds[c.DefaultQuery("kind", "profile")]
	if !ok {
		common.RespondError(c, http.StatusBadRequest, "неизвестное назначение загрузки")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondError(c, http.StatusBadRequest, "файл не может быть пустым")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondError(c, http.StatusBadRequest,
			fmt.Sprintf("неподдерживаемый формат файла (%s)", ext))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	defer src.Close()

	// Проверяем магические байты: расширению доверять нельзя
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondError(c, http.StatusBadRequest, "не удалось прочитать файл")
		return
	}

	fileKind, err := filetype.Match(buffer[:n])
	if err != nil || fileKind == filetype.Unknown || !allowedMimeTypes[fileKind.MIME.Value] {
		common.RespondError(c, http.StatusBadRequest, "разрешены только изображения jpeg, png и webp")
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			common.AbortWithError(c, err)
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), kind, userID, file.Filename, src)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": filepath.ToSlash(relativePath),
		"size": size,
		"mime": fileKind.MIME.Value,
	})
}

// UploadProof обрабатывает POST /gigs/:id/proof: сохраняет фото и привязывает
// его к заданию как подтверждение выполнения.
func (h *MediaHandler) UploadProof(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "поле file обязательно")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondError(c, http.StatusBadRequest,
			fmt.Sprintf("неподдерживаемый формат файла (%s)", ext))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondError(c, http.StatusBadRequest, "не удалось прочитать файл")
		return
	}

	fileKind, err := filetype.Match(buffer[:n])
	if err != nil || fileKind == filetype.Unknown || !allowedMimeTypes[fileKind.MIME.Value] {
		common.RespondError(c, http.StatusBadRequest, "разрешены только изображения jpeg, png и webp")
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			common.AbortWithError(c, err)
			return
		}
	}

	relativePath, _, err := h.storage.Save(c.Request.Context(), storage.KindProof, userID, file.Filename, src)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	gig, err := h.gigs.UploadProof(c.Request.Context(), userID, gigID, filepath.ToSlash(relativePath))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gig)
}
