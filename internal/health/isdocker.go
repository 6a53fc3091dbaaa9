package health

import "os"

// IsDocker reports whether the program runs in its Docker image,
// which creates the isdocker marker file in the working directory.
func IsDocker() (ok bool) {
	_, err := os.Stat("isdocker")
	return err == nil
}
