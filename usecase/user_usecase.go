package usecase

import (
	"context"
	"crypto/md5"
	"fmt"

	"contentflow/domain/dto"
	"contentflow/domain/model"
	"contentflow/domain/repository"
	"contentflow/infrastructure/configuration"
	"contentflow/infrastructure/logger"
	"contentflow/infrastructure/utils"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
}

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	res := dto.Res{ResponseCode: "01", ResponseMessage: "Invalid username or password"}

	user, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("user lookup failed")
		return res
	}
	hashed := fmt.Sprintf("%x", md5.Sum([]byte(req.Password)))
	if user.Password != hashed {
		return res
	}

	token, err := utils.GenerateToken(map[string]interface{}{
		"iss":      user.ID,
		"userName": user.UserName,
	}, configuration.C.App.SecretKey)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("token generation failed")
		res.ResponseCode = "02"
		res.ResponseMessage = "Unable to sign in"
		return res
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{
		"token":    token,
		"userName": user.UserName,
		"name":     user.Name,
	}
	return res
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	res := dto.Res{ResponseCode: "01", ResponseMessage: "Registration failed"}

	if _, err := u.userRepo.GetByUserName(ctx, req.UserName); err == nil {
		res.ResponseMessage = "Username already taken"
		return res
	}

	user := model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Password: req.Password,
		Email:    req.Email,
	}
	if err := u.userRepo.CreateUser(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("create user failed")
		return res
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	return res
}
