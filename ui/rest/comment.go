package rest

import (
	"fmt"

	authInfra "github.com/AzielCF/az-press/auth/infrastructure"
	commentApp "github.com/AzielCF/az-press/comments/application"
	commentDomain "github.com/AzielCF/az-press/comments/domain"
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/AzielCF/az-press/validations"
	"github.com/gofiber/fiber/v2"
)

type Comment struct {
	Service *commentApp.Service
}

func InitRestComment(app fiber.Router, guards Guards, service *commentApp.Service) Comment {
	rest := Comment{Service: service}
	app.Get("/articles/:id/comments", guards.Optional, rest.Thread)
	app.Post("/articles/:id/comments", guards.Optional, rest.Create)
	app.Get("/comments/:id", guards.Optional, rest.Get)
	app.Get("/comments/:id/likes", guards.Optional, rest.Likes)
	app.Post("/comments/:id/like", guards.Auth, rest.ToggleLike)
	app.Put("/comments/:id/parent", guards.Auth, guards.Role("admin"), rest.Move)
	app.Put("/comments/:id/moderation", guards.Auth, guards.Role("admin"), rest.Moderate)
	app.Delete("/comments/:id", guards.Auth, guards.Role("admin"), rest.Delete)

	return rest
}

// Thread returns the reply tree. Admins may ask for hidden comments with ?all=true.
func (handler *Comment) Thread(c *fiber.Ctx) error {
	articleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	public := true
	if s := authInfra.SessionFrom(c); s != nil && s.Role == "admin" && c.QueryBool("all") {
		public = false
	}

	roots, err := handler.Service.Thread(c.UserContext(), articleID, public)
	if err != nil {
		return err
	}
	return utils.Success(c, "Comments retrieved", roots)
}

func (handler *Comment) Create(c *fiber.Ctx) error {
	articleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req validations.CreateCommentRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateCreateComment(c.UserContext(), req); err != nil {
		return err
	}

	comment := &commentDomain.Comment{
		ArticleID:  articleID,
		ParentID:   req.ParentID,
		AuthorName: req.AuthorName,
		Content:    req.Content,
	}
	if uid := authInfra.UserID(c); uid != 0 {
		comment.UserID = &uid
	}
	if err := handler.Service.Create(c.UserContext(), comment); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Comment submitted for moderation",
		Results: comment,
	})
}

func (handler *Comment) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	comment, err := handler.Service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	// Hidden comments exist only for moderators.
	if s := authInfra.SessionFrom(c); !commentDomain.Visible(comment) && (s == nil || s.Role != "admin") {
		return fmt.Errorf("%w: %d", commentDomain.ErrCommentNotFound, id)
	}
	return utils.Success(c, "Comment retrieved", comment)
}

func (handler *Comment) Move(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req validations.MoveCommentRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateMoveComment(c.UserContext(), req); err != nil {
		return err
	}

	moved, err := handler.Service.Move(c.UserContext(), id, req.ParentID)
	if err != nil {
		return err
	}
	return utils.Success(c, "Comment moved", moved)
}

func (handler *Comment) Moderate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req validations.ModerateCommentRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}

	comment, err := handler.Service.Moderate(c.UserContext(), id, req.Approved, req.Spam)
	if err != nil {
		return err
	}
	return utils.Success(c, "Comment moderated", comment)
}

func (handler *Comment) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := handler.Service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return utils.Success(c, "Comment deleted", nil)
}

func (handler *Comment) ToggleLike(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	state, err := handler.Service.ToggleLike(c.UserContext(), id, authInfra.UserID(c))
	if err != nil {
		return err
	}
	return utils.Success(c, "Like toggled", state)
}

func (handler *Comment) Likes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	return utils.Success(c, "Comment likes retrieved", handler.Service.Likes(c.UserContext(), id, authInfra.UserID(c)))
}
