package goroutine

import (
	"runtime/debug"

	"github.com/zigger-app/gig-backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic.
// Используется для побочных эффектов (уведомления, push), падение которых
// не должно ронять процесс и откатывать основную операцию.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

func recoverPanic() {
	if r := recover(); r != nil {
		if logger.Log != nil {
			logger.Log.Errorf("panic в горутине: %v\n%s", r, debug.Stack())
		}
	}
}
