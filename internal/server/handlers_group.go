package server

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/splitledger/internal/models"
)

type groupResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CreatedBy   string   `json:"created_by"`
	Members     []string `json:"members"`
	CreatedAt   int64    `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		Members:     g.Members,
		CreatedAt:   g.CreatedAt,
	}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !readJSON(w, r, &req) {
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.Name, req.Description, userIDFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", group.CreatedBy)
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.UserGroups(r.Context(), userIDFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.requireMember(w, r, groupID); !ok {
		return
	}

	group, err := s.groups.Group(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")

	if err := s.groups.DeleteGroup(r.Context(), groupID, userIDFrom(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("Group deleted", "group_id", groupID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.requireMember(w, r, groupID); !ok {
		return
	}

	members, err := s.groups.Members(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"members": members})
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.requireMember(w, r, groupID); !ok {
		return
	}

	var req addMemberRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	if err := s.groups.AddMember(r.Context(), groupID, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("Member added", "group_id", groupID, "user_id", req.UserID)
	w.WriteHeader(http.StatusNoContent)
}
