package rest

import (
	articleApp "github.com/AzielCF/az-press/articles/application"
	articleDomain "github.com/AzielCF/az-press/articles/domain"
	authInfra "github.com/AzielCF/az-press/auth/infrastructure"
	"github.com/AzielCF/az-press/pkg/utils"
	"github.com/AzielCF/az-press/validations"
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
)

type Article struct {
	Service *articleApp.Service
}

func InitRestArticle(app fiber.Router, guards Guards, service *articleApp.Service) Article {
	rest := Article{Service: service}
	app.Get("/articles/recent", rest.Recent)
	app.Get("/articles/featured", rest.Featured)
	app.Get("/articles/:id", guards.Optional, rest.Get)
	app.Get("/articles/:id/stats", rest.Stats)
	app.Post("/articles", guards.Auth, guards.Role("author"), rest.Create)
	app.Put("/articles/:id", guards.Auth, guards.Role("author"), rest.Update)
	app.Delete("/articles/:id", guards.Auth, guards.Role("author"), rest.Delete)
	app.Post("/articles/:id/like", guards.Auth, rest.ToggleLike)

	return rest
}

func (handler *Article) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := handler.Service.Get(c.UserContext(), id, authInfra.UserID(c))
	if err != nil {
		return err
	}
	return utils.Success(c, "Article retrieved", detail)
}

func (handler *Article) Recent(c *fiber.Ctx) error {
	list, err := handler.Service.Recent(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, "Recent articles retrieved", list)
}

func (handler *Article) Featured(c *fiber.Ctx) error {
	list, err := handler.Service.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return utils.Success(c, "Featured articles retrieved", list)
}

func (handler *Article) Stats(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	views, likes := handler.Service.Stats(c.UserContext(), id)
	return utils.Success(c, "Article stats retrieved", fiber.Map{
		"views":         views,
		"likes":         likes,
		"views_display": humanize.Comma(views),
		"likes_display": humanize.Comma(likes),
	})
}

func (handler *Article) Create(c *fiber.Ctx) error {
	var req validations.CreateArticleRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateCreateArticle(c.UserContext(), req); err != nil {
		return err
	}

	article := &articleDomain.Article{
		Title:     req.Title,
		Slug:      req.Slug,
		Summary:   req.Summary,
		Content:   req.Content,
		AuthorID:  authInfra.UserID(c),
		Featured:  req.Featured,
		Published: req.Published,
	}
	if err := handler.Service.Create(c.UserContext(), article); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Article created",
		Results: article,
	})
}

func (handler *Article) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req articleDomain.Update
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateUpdateArticle(c.UserContext(), req); err != nil {
		return err
	}

	article, err := handler.Service.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return utils.Success(c, "Article updated", article)
}

func (handler *Article) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := handler.Service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return utils.Success(c, "Article deleted", nil)
}

func (handler *Article) ToggleLike(c *fiber.Ctx) error {
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
