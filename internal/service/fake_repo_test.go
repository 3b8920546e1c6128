package service

import (
	"errors"
	"io"
	"log/slog"

	"github.com/vnagar/portfolio/backend/internal/repository/repositorytest"
)

// errStore — ошибка хранилища для тестов.
var errStore = errors.New("connection reset")

func newFakeRepo() *repositorytest.IdentityRepo {
	return repositorytest.NewIdentityRepo()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
