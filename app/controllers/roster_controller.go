package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
)

const rosterNotFound = "Roster member not found"

// RosterController serves the district officer roster.
type RosterController struct {
	roster *services.RosterService
}

func NewRosterController(roster *services.RosterService) *RosterController {
	return &RosterController{roster: roster}
}

func (rc *RosterController) HandleIndex(c *fiber.Ctx) error {
	page, err := rc.roster.List(c.UserContext(), listQuery(c, content.ScopePublic))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (rc *RosterController) HandleAdminIndex(c *fiber.Ctx) error {
	page, err := rc.roster.List(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (rc *RosterController) HandleAdminShow(c *fiber.Ctx) error {
	id, err := paramID(c, rosterNotFound)
	if err != nil {
		return err
	}
	member, err := rc.roster.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, member)
}

func (rc *RosterController) HandleAdminStore(c *fiber.Ctx) error {
	var in services.RosterInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	member, err := rc.roster.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Created(c, member)
}

func (rc *RosterController) HandleAdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, rosterNotFound)
	if err != nil {
		return err
	}
	var in services.RosterInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	member, err := rc.roster.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Roster member updated", member)
}

func (rc *RosterController) HandleAdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, rosterNotFound)
	if err != nil {
		return err
	}
	if err := rc.roster.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
