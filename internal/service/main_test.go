package service

import (
	"os"
	"testing"

	"github.com/zigger-app/gig-backend/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("panic")
	os.Exit(m.Run())
}
