package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"waterbilling_backend/internals/configs"
	"waterbilling_backend/internals/constants"
	authHelper "waterbilling_backend/internals/features/users/auth/helper"
	authRepo "waterbilling_backend/internals/features/users/auth/repository"
	"waterbilling_backend/internals/features/users/user/dto"
	"waterbilling_backend/internals/features/users/user/model"
	helper "waterbilling_backend/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/users (superuser)
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).
		Order("user_name ASC").
		Find(&users).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "Users fetched successfully", dto.FromModels(users))
}

// GET /api/users/me: staff dari sesi
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	user, err := uc.current(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "User profile fetched successfully", dto.FromModel(*user))
}

// POST /api/users (superuser)
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid input format")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.ValidationErrors(c, err)
	}

	ctx := c.UserContext()
	taken, err := authRepo.IsUsernameTaken(ctx, uc.DB, req.UserName)
	if err != nil {
		return err
	}
	if taken {
		return fiber.NewError(fiber.StatusConflict, "Username is already taken")
	}

	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user := req.ToModel(hash)
	if err := authRepo.CreateUser(ctx, uc.DB, user); err != nil {
		return err
	}

	configs.Logger.Info("staff user created",
		zap.String("user_name", user.UserName),
		zap.Any("by", c.Locals(constants.LocUserName)),
	)
	return helper.JsonCreated(c, "User created successfully", dto.FromModel(*user))
}

// PATCH /api/users/:id (superuser): aktif/nonaktif, superuser flag
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	user, err := uc.byParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if isSelf(c, user.ID) && req.IsActive != nil && !*req.IsActive {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "You cannot deactivate your own account")
	}

	up := req.Apply(user)
	if len(up) > 0 {
		if err := uc.DB.WithContext(c.UserContext()).
			Model(&model.UserModel{}).
			Where("id = ?", user.ID).
			Updates(up).Error; err != nil {
			return err
		}
	}
	return helper.JsonUpdated(c, "User updated successfully", dto.FromModel(*user))
}

// PATCH /api/users/me/password
func (uc *UserController) ChangePassword(c *fiber.Ctx) error {
	user, err := uc.current(c)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationErrors(c, err)
	}
	if !authHelper.CheckPassword(user.Password, req.OldPassword) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Old password is incorrect")
	}

	hash, err := authHelper.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.DB.WithContext(c.UserContext()).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Update("password", hash).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Password updated successfully", nil)
}

// DELETE /api/users/:id (superuser)
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	user, err := uc.byParam(c)
	if err != nil {
		return err
	}
	if isSelf(c, user.ID) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "You cannot delete your own account")
	}
	if err := uc.DB.WithContext(c.UserContext()).Delete(&model.UserModel{}, "id = ?", user.ID).Error; err != nil {
		return err
	}
	configs.Logger.Info("staff user deleted", zap.String("user_name", user.UserName))
	return helper.JsonDeleted(c, "User deleted successfully", fiber.Map{"id": user.ID})
}

func (uc *UserController) current(c *fiber.Ctx) (*model.UserModel, error) {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	return uc.find(c, id)
}

func (uc *UserController) byParam(c *fiber.Ctx) (*model.UserModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return uc.find(c, id)
}

func (uc *UserController) find(c *fiber.Ctx, id uuid.UUID) (*model.UserModel, error) {
	user, err := authRepo.FindUserByID(c.UserContext(), uc.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

func isSelf(c *fiber.Ctx, id uuid.UUID) bool {
	me, err := helper.GetUserIDFromToken(c)
	return err == nil && me == id
}
