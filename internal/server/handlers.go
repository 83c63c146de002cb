package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/madun-it/portfolio/internal/contact"
	"github.com/madun-it/portfolio/internal/content"
	"github.com/madun-it/portfolio/internal/nav"
)

type pageData struct {
	Portfolio    *content.Portfolio
	Titles       map[string]string
	Menu         []nav.Link
	NavThreshold int
	Contact      contactView
}

// contactView is what the contact-form fragment renders.
type contactView struct {
	contact.View
	Errors map[string]string
	// PollAfter asks the page to fetch the form again once the banner or
	// the in-flight state is expected to be over.
	PollAfter string
}

func (s *Server) contactView(v contact.View, errs map[string]string) contactView {
	cv := contactView{View: v, Errors: errs}
	switch {
	case v.Sending():
		cv.PollAfter = "1s"
	case v.Banner != "":
		cv.PollAfter = (s.resetAfter + 250*time.Millisecond).String()
	}
	return cv
}

// snapshot returns the visitor's contact state. Visitors who never
// submitted have no controller and see an empty idle form.
func (s *Server) snapshot(c *gin.Context) contact.View {
	if ctrl, ok := s.sessions.Lookup(visitorID(c)); ok {
		return ctrl.Snapshot()
	}
	return contact.View{Status: contact.StatusIdle}
}

func (s *Server) handleIndex(c *gin.Context) {
	links := make([]nav.Link, 0, len(s.portfolio.Sections))
	titles := make(map[string]string, len(s.portfolio.Sections))
	for _, sec := range s.portfolio.Sections {
		links = append(links, nav.Link{ID: sec.ID, Href: sec.Anchor()})
		titles[sec.ID] = sec.Title
	}

	// The page always opens scrolled to the top.
	var active string
	if len(links) > 0 {
		active = links[0].ID
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Portfolio:    s.portfolio,
		Titles:       titles,
		Menu:         nav.Menu(links, active),
		NavThreshold: s.navThreshold,
		Contact:      s.contactView(s.snapshot(c), nil),
	})
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form", s.contactView(s.snapshot(c), nil))
}

func (s *Server) handleContactSubmit(c *gin.Context) {
	visitor := visitorID(c)
	ctrl, err := s.sessions.Get(visitor)
	if err != nil {
		s.log.Warn("Contact session refused", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, "contact-form", s.contactView(contact.View{Status: contact.StatusIdle},
			map[string]string{contact.FieldMessage: "The form is busy right now. Please try again in a minute."}))
		return
	}

	// The button is disabled while sending; a second request is refused
	// without touching the form.
	if ctrl.Snapshot().Sending() {
		c.HTML(http.StatusConflict, "contact-form", s.contactView(ctrl.Snapshot(), nil))
		return
	}

	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.keepInput(ctrl, form)
		c.HTML(http.StatusUnprocessableEntity, "contact-form", s.contactView(ctrl.Snapshot(), fieldErrors(err)))
		return
	}

	err = ctrl.Submit(c.Request.Context(), form)
	switch {
	case errors.Is(err, contact.ErrInFlight):
		c.HTML(http.StatusConflict, "contact-form", s.contactView(ctrl.Snapshot(), nil))
		return
	case errors.Is(err, contact.ErrIncomplete), errors.Is(err, contact.ErrClosed):
		s.log.Warn("Contact submission refused", zap.Error(err))
		c.HTML(http.StatusUnprocessableEntity, "contact-form", s.contactView(ctrl.Snapshot(), nil))
		return
	}

	s.recordSubmission(c.Request.Context(), visitor, err)

	// Both outcomes render the form with its banner; failures are not an
	// HTTP error for the page.
	c.HTML(http.StatusOK, "contact-form", s.contactView(ctrl.Snapshot(), nil))
}

// keepInput stores what the visitor typed so a rejected form is shown
// again with the same values.
func (s *Server) keepInput(ctrl *contact.Controller, f contact.Form) {
	for field, value := range map[string]string{
		contact.FieldName:     f.Name,
		contact.FieldEmail:    f.Email,
		contact.FieldWhatsApp: f.WhatsApp,
		contact.FieldAddress:  f.Address,
		contact.FieldMessage:  f.Message,
	} {
		if err := ctrl.Input(field, value); err != nil {
			return
		}
	}
}

func (s *Server) recordSubmission(ctx context.Context, visitor string, sendErr error) {
	status, errMsg := contact.StatusSuccess.String(), ""
	if sendErr != nil {
		status, errMsg = contact.StatusError.String(), sendErr.Error()
	}
	if _, err := s.metrics.RecordSubmission(context.WithoutCancel(ctx), visitor, status, errMsg); err != nil {
		s.log.Warn("Error recording submission", zap.Error(err))
	}
}

var fieldNames = map[string]string{
	"Name":     contact.FieldName,
	"Email":    contact.FieldEmail,
	"WhatsApp": contact.FieldWhatsApp,
	"Address":  contact.FieldAddress,
	"Message":  contact.FieldMessage,
}

// fieldErrors turns binding errors into per-field messages keyed by the
// form field name.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{contact.FieldMessage: "Could not read the form. Please try again."}
	}

	errs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name, ok := fieldNames[fe.Field()]
		if !ok {
			continue
		}
		switch fe.Tag() {
		case "required":
			errs[name] = "This field is required."
		case "email":
			errs[name] = "Please enter a valid email address."
		default:
			errs[name] = "Invalid value."
		}
	}
	return errs
}
