package profile

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

const unreadable = "<failed to read>"

// Identity is what the host says about itself: DMI strings on PCs,
// device-tree compatibles on ARM boards.
type Identity struct {
	ProductName   string
	ProductVendor string
	BoardName     string
	BoardVendor   string
	HasDMI        bool

	Compatible []string
}

// ReadIdentity reads the host identity below root, which is "/" outside
// tests. Missing DMI fields read as "<failed to read>".
func ReadIdentity(root string) Identity {
	if root == "" {
		root = "/"
	}
	dmi := filepath.Join(root, "sys/class/dmi/id")
	id := Identity{
		ProductName:   readDMI(dmi, "product_name"),
		ProductVendor: readDMI(dmi, "product_vendor"),
		BoardName:     readDMI(dmi, "board_name"),
		BoardVendor:   readDMI(dmi, "board_vendor"),
	}
	if fi, err := os.Stat(dmi); err == nil && fi.IsDir() {
		id.HasDMI = true
	}

	if data, err := os.ReadFile(filepath.Join(root, "proc/device-tree/compatible")); err == nil {
		for _, c := range bytes.Split(data, []byte{0}) {
			if len(c) > 0 {
				id.Compatible = append(id.Compatible, string(c))
			}
		}
	}
	return id
}

func readDMI(dir, name string) string {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return unreadable
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return unreadable
	}
	return strings.TrimRight(sc.Text(), "\r")
}
