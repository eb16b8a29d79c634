package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// StoryController serves the public blog and the story editor.
type StoryController struct {
	stories *services.StoryService
}

func NewStoryController(stories *services.StoryService) *StoryController {
	return &StoryController{stories: stories}
}

// HandleIndex lists active, published stories. Supports search, category and page.
func (sc *StoryController) HandleIndex(c *fiber.Ctx) error {
	page, err := sc.stories.ListPublic(c.UserContext(), listQuery(c, content.ScopePublic))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

// HandleShow returns one visible story by slug and counts the view.
func (sc *StoryController) HandleShow(c *fiber.Ctx) error {
	story, err := sc.stories.GetPublic(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	sc.stories.RecordView(c.UserContext(), story.ID)
	return response.Success(c, story)
}

func (sc *StoryController) HandleAdminIndex(c *fiber.Ctx) error {
	page, err := sc.stories.ListAdmin(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (sc *StoryController) HandleAdminShow(c *fiber.Ctx) error {
	id, err := paramID(c, "Story not found")
	if err != nil {
		return err
	}
	story, err := sc.stories.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, story)
}

func (sc *StoryController) HandleAdminStore(c *fiber.Ctx) error {
	var in services.StoryInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	story, err := sc.stories.Create(c.UserContext(), usercontext.GetActor(c), in)
	if err != nil {
		return err
	}
	return response.Created(c, story)
}

// HandleAdminUpdate replaces the story's fields. Non-admins may only edit their own stories.
func (sc *StoryController) HandleAdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "Story not found")
	if err != nil {
		return err
	}
	var in services.StoryInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	story, err := sc.stories.Update(c.UserContext(), usercontext.GetActor(c), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Story updated", story)
}

func (sc *StoryController) HandleAdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "Story not found")
	if err != nil {
		return err
	}
	if err := sc.stories.Delete(c.UserContext(), usercontext.GetActor(c), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
