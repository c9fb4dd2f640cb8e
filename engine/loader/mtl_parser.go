package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/udhos/gwob"
)

// MaterialInfo is one `newmtl` block of a Wavefront material library.
type MaterialInfo struct {
	Name string

	// Diffuse (Kd), Specular (Ks) and Emissive (Ke) colors.
	Diffuse  [3]float32
	Specular [3]float32
	Emissive [3]float32

	// Shininess is the specular exponent (Ns).
	Shininess float32

	// Opacity is d, or 1-Tr when only Tr is given.
	Opacity float32

	// Illum is the illumination model number.
	Illum int

	// DiffuseMap (map_Kd) and EmissiveMap (map_Ke) are paths relative to the library.
	DiffuseMap  string
	EmissiveMap string
}

// parseMTL reads a Wavefront .mtl stream. gwob parses the library and supplies each
// material's name, diffuse color and diffuse map. Its Material does not carry the emission
// the LEDs rely on, so a second pass over the same bytes picks up Ks, Ke, Ns, d, Tr, illum
// and map_Ke, along with the file order of the newmtl blocks. Materials are returned in
// file order.
func parseMTL(r io.Reader, name string) ([]MaterialInfo, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	extras, err := scanMTLExtras(buf, name)
	if err != nil {
		return nil, err
	}
	lib, err := gwob.ReadMaterialLibFromBuf(buf, gwobOptions(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := make([]MaterialInfo, 0, len(extras))
	for _, ex := range extras {
		info := ex.info
		if m, ok := lib.Lib[info.Name]; ok {
			if ex.hasKd {
				info.Diffuse = m.Kd
			}
			info.DiffuseMap = mapPath(strings.Fields(m.MapKd))
		}
		out = append(out, info)
	}
	return out, nil
}

type mtlExtras struct {
	info  MaterialInfo
	hasKd bool
}

// scanMTLExtras collects the statements parseMTL does not take from gwob.
func scanMTLExtras(buf []byte, name string) ([]mtlExtras, error) {
	var (
		out []mtlExtras
		cur *mtlExtras
	)
	for lineNo, raw := range strings.Split(string(buf), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		key, args := fields[0], fields[1:]

		if key == "newmtl" {
			if len(args) == 0 {
				return nil, fmt.Errorf("%s:%d: newmtl without a name", name, lineNo+1)
			}
			out = append(out, mtlExtras{info: MaterialInfo{
				Name:    strings.Join(args, " "),
				Diffuse: [3]float32{1, 1, 1},
				Opacity: 1,
				Illum:   2,
			}})
			cur = &out[len(out)-1]
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch strings.ToLower(key) {
		case "kd":
			cur.hasKd = true
		case "ks":
			cur.info.Specular, err = parseVec3(args)
		case "ke":
			cur.info.Emissive, err = parseVec3(args)
		case "ns":
			cur.info.Shininess, err = parseFloat(args)
		case "d":
			cur.info.Opacity, err = parseFloat(args)
		case "tr":
			var tr float32
			if tr, err = parseFloat(args); err == nil {
				cur.info.Opacity = 1 - tr
			}
		case "illum":
			var f float32
			if f, err = parseFloat(args); err == nil {
				cur.info.Illum = int(f)
			}
		case "map_ke":
			cur.info.EmissiveMap = mapPath(args)
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %s: %w", name, lineNo+1, key, err)
		}
	}
	return out, nil
}

// mapPath returns the file name of a map statement, skipping any leading options such as
// `-s 1 1 1` or `-bm 0.5`.
func mapPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}

func parseFloat(args []string) (float32, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing value")
	}
	f, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func parseVec3(args []string) ([3]float32, error) {
	var v [3]float32
	if len(args) < 3 {
		return v, fmt.Errorf("want 3 values, got %d", len(args))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
