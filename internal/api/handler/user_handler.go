package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type UserHandler struct {
	userService service.IUserService
}

func NewUserHandler(userService service.IUserService) *UserHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &UserHandler{
		userService: userService,
	}
}

// UpdateDetails 更新自己的名字, userID取自token不取自body
func (u *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	payload, err := payloadFromRequest(r)
	if err != nil {
		api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
		return
	}

	var updateDTO dto.UpdateUserDetailsDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	user, err := u.userService.UpdateDetails(r.Context(), payload.UserID, updateDTO.FirstName, updateDTO.LastName)
	if err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, convertUserModelToDTO(user))
}

func (u *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	payload, err := payloadFromRequest(r)
	if err != nil {
		api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
		return
	}

	var updateDTO dto.UpdateUserPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		api.ErrorJSON(w, int(er.BadRequestCode), nil, er.ErrStrMap[er.BadRequestCode])
		return
	}

	if err := u.userService.UpdatePassword(r.Context(), payload.UserID, updateDTO.NewPassword); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, map[string]string{"message": "password updated"})
}

func (u *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := u.userService.GetAllUsers(r.Context())
	if err != nil {
		api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		return
	}

	userDTOs := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		userDTOs = append(userDTOs, convertUserModelToDTO(&users[i]))
	}
	api.SuccessJSON(w, userDTOs)
}

// DeactivateUser 軟刪除, 保留歷史訂單
func (u *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	payload, err := payloadFromRequest(r)
	if err != nil {
		api.ErrorJSON(w, int(er.UnauthenticatedCode), err, er.ErrStrMap[er.UnauthenticatedCode])
		return
	}

	targetID, err := parseIDParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, int(er.InvalidArgumentCode), err, er.ErrStrMap[er.InvalidArgumentCode])
		return
	}

	if err := u.userService.DeactivateUser(r.Context(), payload.UserID, targetID); err != nil {
		if appErr, ok := err.(*er.AppError); ok {
			api.ErrorJSON(w, int(appErr.Code), appErr, er.ErrStrMap[appErr.Code])
		} else {
			api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
		}
		return
	}

	api.SuccessJSON(w, map[string]string{"message": "user deactivated"})
}
