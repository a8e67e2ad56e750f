package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/calendar"
	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// EventController handles event related operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

func toEventResponse(ev *models.Event, participantCount int) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:               ev.ID,
		Title:            ev.Title,
		Description:      ev.Description,
		Type:             string(ev.Type),
		Date:             ev.Date,
		Duration:         ev.Duration,
		Location:         ev.Location,
		CreatedBy:        ev.CreatedBy,
		Past:             ev.Date.Before(time.Now()),
		ParticipantCount: participantCount,
	}

	for _, p := range ev.Participants {
		resp.Participants = append(resp.Participants, &dto.ParticipantInfo{
			ID:        p.ID,
			FullName:  p.FullName,
			AvatarURL: p.AvatarURL,
			Role:      string(p.Role),
		})
	}

	return resp
}

func toCalendarResponse(grid *calendar.MonthGrid) *dto.CalendarResponse {
	resp := &dto.CalendarResponse{
		Year:         grid.Year,
		Month:        int(grid.Month),
		Cells:        make([]*dto.CalendarDayCell, 0, len(grid.Cells)),
		LeadingEmpty: grid.LeadingEmpty,
		Prev:         dto.CalendarMonthRef{Year: grid.Prev.Year, Month: int(grid.Prev.Month)},
		Next:         dto.CalendarMonthRef{Year: grid.Next.Year, Month: int(grid.Next.Month)},
	}

	for _, cell := range grid.Cells {
		if cell == nil {
			resp.Cells = append(resp.Cells, nil)
			continue
		}
		day := &dto.CalendarDayCell{
			Day:    cell.Day,
			Events: make([]*dto.EventResponse, 0, len(cell.Events)),
		}
		for _, ev := range cell.Events {
			day.Events = append(day.Events, toEventResponse(ev, 0))
		}
		resp.Cells = append(resp.Cells, day)
	}

	return resp
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier")
		errorDetail = errorDetail.WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// ListEvents handles retrieving events
// @Summary List events
// @Description Lists events ordered by date. Past events stay listed and are flagged, not hidden.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of events"
// @Param onlyFuture query bool false "Drop events before now"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	onlyFuture, _ := strconv.ParseBool(ctx.DefaultQuery("onlyFuture", "false"))

	events, counts, err := c.eventService.ListEvents(ctx.Request.Context(), limit, onlyFuture)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, toEventResponse(ev, counts[ev.ID]))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// GetEvent handles retrieving one event with its participants
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	event, registered, err := c.eventService.GetEvent(ctx.Request.Context(), id, profileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := toEventResponse(event, len(event.Participants))
	resp.IsRegistered = registered
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateEvent handles event creation
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), profileID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(toEventResponse(event, 0)))
}

// UpdateEvent handles event modification
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event payload"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toEventResponse(event, 0)))
}

// DeleteEvent handles event removal
// @Summary Delete an event
// @Description Removes an event and its registrations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Event deleted"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Event deleted"}))
}

// Register handles signing up for an event
// @Summary Register for an event
// @Description Registers the current profile. Registering twice is a harmless no-op.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Registered"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	inserted, err := c.eventService.Register(ctx.Request.Context(), id, profileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Registered"
	if !inserted {
		message = "Already registered"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: message}))
}

// Unregister handles withdrawing from an event
// @Summary Unregister from an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Unregistered"
// @Failure 404 {object} dto.ErrorResponse "Not registered"
// @Router /events/{id}/register [delete]
func (c *EventController) Unregister(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	if err := c.eventService.Unregister(ctx.Request.Context(), id, profileID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Unregistered"}))
}

// Calendar handles the month grid view
// @Summary Get the calendar month grid
// @Description Returns a Monday-first month grid with events bucketed per day. Defaults to the current month.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} dto.APIResponse{data=dto.CalendarResponse} "Month grid"
// @Failure 400 {object} dto.ErrorResponse "Invalid year or month"
// @Router /events/calendar [get]
func (c *EventController) Calendar(ctx *gin.Context) {
	now := time.Now()
	year, err := strconv.Atoi(ctx.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1970 || year > 9999 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid year")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	monthNum, err := strconv.Atoi(ctx.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || monthNum < 1 || monthNum > 12 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid month")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	grid, err := c.eventService.MonthGrid(ctx.Request.Context(), year, time.Month(monthNum))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toCalendarResponse(grid)))
}
