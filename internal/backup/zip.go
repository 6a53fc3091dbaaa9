package backup

import (
	"archive/zip"
	"io"
	"os"
)

func zipFiles(outputPath string, inputPaths ...string) (err error) {
	output, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer output.Close()

	writer := zip.NewWriter(output)
	defer writer.Close()

	for _, inputPath := range inputPaths {
		err = addFile(writer, inputPath)
		if err != nil {
			return err
		}
	}

	return nil
}

func addFile(writer *zip.Writer, inputPath string) (err error) {
	input, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	info, err := input.Stat()
	if err != nil {
		return err
	}

	// FileInfoHeader records the base name of the file only,
	// which is what we want in the archive.
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Method = zip.Deflate

	zipEntry, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(zipEntry, input)
	return err
}
