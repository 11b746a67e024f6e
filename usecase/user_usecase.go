package usecase

import (
	"context"
	"time"

	"video-scheduler/domain/dto"
	"video-scheduler/domain/model"
	"video-scheduler/domain/repository"
	"video-scheduler/infrastructure/configuration"
	"video-scheduler/infrastructure/logger"
	"video-scheduler/infrastructure/utils"
)

const tokenLifetime = 24 * time.Hour

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
}

type UserUsecase struct {
	userRepository repository.IUser
}

func NewUserUsecase(userRepository repository.IUser) IUserUsecase {
	return &UserUsecase{userRepository: userRepository}
}

func (u *UserUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	var res dto.Res
	res.ResponseCode = "99"
	res.ResponseMessage = "Failed"

	user, err := u.userRepository.GetByUserName(ctx, req.UserName)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while getting user")
		res.ResponseMessage = "Invalid username or password"
		return res
	}
	if user.Password != req.Password {
		res.ResponseMessage = "Invalid username or password"
		return res
	}

	now := utils.GetCurrentTime()
	token, err := utils.GenerateToken(map[string]interface{}{
		"user_name": user.UserName,
		"sub":       user.UserName,
		"iat":       now.Unix(),
		"exp":       now.Add(tokenLifetime).Unix(),
	}, configuration.C.App.SecretKey)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generating token")
		return res
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{
		"access_token": token,
		"user_name":    user.UserName,
		"name":         user.Name,
	}
	return res
}

func (u *UserUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res
	res.ResponseCode = "99"
	res.ResponseMessage = "Failed"

	existing, err := u.userRepository.GetByUserName(ctx, req.UserName)
	if err == nil && existing.UserName == req.UserName {
		res.ResponseMessage = "Username already taken"
		return res
	}

	now := utils.GetCurrentTime()
	user := model.User{
		Name:      req.Name,
		UserName:  req.UserName,
		Password:  req.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.userRepository.CreateUser(ctx, user); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating user")
		return res
	}

	res.ResponseCode = "00"
	res.ResponseMessage = "Success"
	return res
}
