package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/CafeStock-api/internal/application/dto"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/evidence"
)

// máximo aceptado para una foto de entrega
const maxEvidenceSize = 10 << 20 // 10 MiB

// EvidenceHandler sube fotos de entrega y devuelve la referencia a adjuntar
// en la confirmación. Si el almacén no está configurado el handler no se monta.
type EvidenceHandler struct {
	store evidence.Store
}

// NewEvidenceHandler construye el handler.
func NewEvidenceHandler(store evidence.Store) *EvidenceHandler {
	return &EvidenceHandler{store: store}
}

// Upload godoc
// @Summary      Subir evidencia de entrega
// @Description  Recibe un archivo multipart (campo "file") y devuelve la
//
//	referencia opaca a usar como evidence_ref al confirmar.
//
// @Tags         evidence
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Foto de entrega"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/evidence [post]
func (h *EvidenceHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo 'file' requerido"})
	}
	if fileHeader.Size > maxEvidenceSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo demasiado grande"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	ref, err := h.store.Store(c.Context(), fileHeader.Filename, contentType, f, fileHeader.Size)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo guardar la evidencia"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"evidence_ref": ref})
}
