package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/campusclub/clubhub/internal/auth"
	"github.com/campusclub/clubhub/internal/mapper"
	"github.com/campusclub/clubhub/internal/model"
)

// errAlreadyAdmin marks an addAdmin call for a student who already
// administrates the club; handlers answer 400.
var errAlreadyAdmin = errors.New("already an admin")

type adminRequest struct {
	Admin struct {
		Email string `json:"email"`
	} `json:"admin"`
	ClubID int64  `json:"clubId"`
	Token  string `json:"token"`
}

// AddAdmin handles POST /studentAdmin/addAdmin.
func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	h.changeAdmins(w, r, auth.ActionAddAdmin, func(ctx context.Context, club *model.StudentClub, student *model.Student) error {
		already, err := club.HasAdmin(ctx, student)
		if err != nil {
			return err
		}
		if already {
			return errAlreadyAdmin
		}
		return club.AddAdmin(ctx, student)
	})
}

// RemoveAdmin handles POST /studentAdmin/removeAdmin.
func (h *Handler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	h.changeAdmins(w, r, auth.ActionRemoveAdmin, func(ctx context.Context, club *model.StudentClub, student *model.Student) error {
		return club.RemoveAdmin(ctx, student)
	})
}

func (h *Handler) changeAdmins(w http.ResponseWriter, r *http.Request, action auth.Action, change func(context.Context, *model.StudentClub, *model.Student) error) {
	var req adminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Admin.Email == "" {
		writeError(w, http.StatusBadRequest, "admin email is required")
		return
	}

	subject, err := h.subjectFor(r, req.Token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	ctx := r.Context()
	club, err := h.reg.Clubs.Find(ctx, req.ClubID)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "no such club")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	student, err := h.reg.Students.FindByEmail(ctx, req.Admin.Email)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "no student with that email")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	rctx := auth.RequestContext{
		Subject:    subject,
		Permission: auth.Permission{Action: action, Scope: auth.ClubScope(club.ID())},
	}
	err = auth.Authorize(ctx, h.enforcer, rctx, func(ctx context.Context) error {
		if err := change(ctx, club, student); err != nil {
			return err
		}
		u := h.unit()
		u.RegisterDirty(club)
		return u.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, errAlreadyAdmin) {
			writeError(w, http.StatusBadRequest, "student is already an admin of this club")
			return
		}
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MyClubs handles GET /studentAdmin/myClubs?email=.
func (h *Handler) MyClubs(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx := r.Context()
	student, err := h.reg.Students.FindByEmail(ctx, email)
	if errors.Is(err, mapper.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "no student with that email")
		return
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	clubs, err := h.reg.Clubs.FindByStudent(ctx, student.ID())
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	views := make([]clubView, 0, len(clubs))
	for _, club := range clubs {
		name, err := club.Name(ctx)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		views = append(views, clubView{ClubID: club.ID(), ClubName: name})
	}
	writeJSON(w, http.StatusOK, views)
}

// GetAdmins handles GET /studentAdmin/getAdmins?studentID=: the admin
// roster of the first club the student administrates.
func (h *Handler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.URL.Query().Get("studentID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid studentID")
		return
	}

	ctx := r.Context()
	clubs, err := h.reg.Clubs.FindByStudent(ctx, studentID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if len(clubs) == 0 {
		writeJSON(w, http.StatusOK, []adminView{})
		return
	}

	admins, err := clubs[0].Admins(ctx)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	views := make([]adminView, 0, len(admins))
	for _, admin := range admins {
		name, err := admin.Name(ctx)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		adminEmail, err := admin.Email(ctx)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		views = append(views, adminView{Username: name, Email: adminEmail})
	}
	writeJSON(w, http.StatusOK, views)
}
