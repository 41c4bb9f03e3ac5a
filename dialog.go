package main

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/clfractal/render"
	"go.uber.org/zap"
)

// catchPanicToContext turns a panic into the cause of cancel.
func catchPanicToContext(cancel func(error)) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		cancel(fmt.Errorf("%w\n%v", err, string(debug.Stack())))
	}
}

// showErrorDialog blocks until the user closes a dialog describing err.
// Without a usable display it only logs.
func showErrorDialog(log *zap.Logger, err error) {
	if initErr := gtk.InitCheck(nil); initErr != nil {
		log.Warn("cannot show error dialog", zap.Error(initErr))
		return
	}

	dialog := gtk.MessageDialogNew(
		nil,
		gtk.DIALOG_MODAL,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		dialogTitle(err),
	)
	dialog.FormatSecondaryText("%s", err.Error())
	dialog.SetTitle("clfractal")

	messageArea, areaErr := dialog.GetMessageArea()
	if areaErr != nil {
		log.Warn("dialog message area", zap.Error(areaErr))
	} else {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			if widget, ok := item.(*gtk.Widget); ok {
				l, err := gtk.WidgetToLabel(widget)
				if err != nil {
					return
				}

				l.SetSelectable(true)
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
	dialog.Destroy()
}

func dialogTitle(err error) string {
	var rerr *render.Error
	if errors.As(err, &rerr) {
		return "Rendering stopped: " + rerr.Kind.String()
	}
	return "Rendering stopped"
}
