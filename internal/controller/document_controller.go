package controller

import (
	"io"

	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/pkg/serverutils"
	"ai-knowledge-be/internal/service"
	"ai-knowledge-be/pkg/ingest"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	IngestURL(ctx *fiber.Ctx) error
	IngestNotion(ctx *fiber.Ctx) error
	IngestConfluence(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type documentController struct {
	ingestionService service.IIngestionService
}

func NewDocumentController(ingestionService service.IIngestionService) IDocumentController {
	return &documentController{
		ingestionService: ingestionService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("upload", c.Upload)
	h.Post("url", c.IngestURL)
	h.Post("notion", c.IngestNotion)
	h.Post("confluence", c.IngestConfluence)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/reindex", c.Reindex)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}

	// Form fields other than the file become caller metadata.
	metadata := map[string]string{}
	if form, err := ctx.MultipartForm(); err == nil {
		for key, values := range form.Value {
			if len(values) > 0 {
				metadata[key] = values[0]
			}
		}
	}

	req := dto.IngestFileRequest{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
		Metadata: metadata,
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.IngestFile(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *documentController) IngestURL(ctx *fiber.Ctx) error {
	return c.ingestFromURL(ctx, "")
}

func (c *documentController) IngestNotion(ctx *fiber.Ctx) error {
	return c.ingestFromURL(ctx, string(ingest.KindNotion))
}

func (c *documentController) IngestConfluence(ctx *fiber.Ctx) error {
	return c.ingestFromURL(ctx, string(ingest.KindConfluence))
}

func (c *documentController) ingestFromURL(ctx *fiber.Ctx, kind string) error {
	var req dto.IngestURLRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Kind = kind

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.IngestURL(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	res, err := c.ingestionService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	var req dto.ListDocumentsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.ingestionService.List(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	if err := c.ingestionService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func (c *documentController) Reindex(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	if err := c.ingestionService.Reindex(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Reindex queued", nil))
}
