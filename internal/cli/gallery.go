package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) capture(ctx context.Context) {
	photo, err := a.gallery.AddNewPhoto(ctx)
	if err != nil {
		fmt.Println("Capture failed:", err)
		return
	}
	fmt.Println("Saved", photo.Filepath)
}

func (a *App) list(ctx context.Context) {
	if err := a.gallery.LoadSavedPhotos(ctx); err != nil {
		fmt.Println("Load failed:", err)
		return
	}
	gallery := a.gallery.Photos()
	if len(gallery) == 0 {
		fmt.Println("No photos yet")
		return
	}
	for i, p := range gallery {
		fmt.Printf("%3d  %s\n", i, p.Filepath)
	}
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: delete <n>")
		return
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("Usage: delete <n>")
		return
	}

	gallery := a.gallery.Photos()
	if position < 0 || position >= len(gallery) {
		fmt.Println("No photo at position", position)
		return
	}

	if err := a.gallery.DeletePhoto(ctx, gallery[position], position); err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	fmt.Println("Deleted", gallery[position].Filepath)
}
