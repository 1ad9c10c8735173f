package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-assets/engine/loader"
	"github.com/Carmen-Shannon/oxy-assets/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// printSummary writes one row per mesh or primitive and one per material.
func printSummary(w io.Writer, name string, a loader.Asset) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	switch m := a.(type) {
	case *model.Model:
		fmt.Fprintf(tw, "%s\tOBJ\t%d meshes\t%d materials\n", name, len(m.Meshes), len(m.Materials))
		for _, mesh := range m.Meshes {
			fmt.Fprintf(tw, "  mesh %s\t%d vertices\t%d indices\tmaterial %s\t%s\n",
				mesh.Name, len(mesh.Vertices), mesh.NumElements, materialName(m.Materials, mesh.Material), bounds(mesh.BoundsMin, mesh.BoundsMax))
		}
		printMaterials(tw, m.Materials)
	case *model.GLTFModel:
		fmt.Fprintf(tw, "%s\tglTF\t%d meshes\t%d materials\n", name, len(m.Meshes), len(m.Materials))
		for _, mesh := range m.Meshes {
			for i, p := range mesh.Primitives {
				fmt.Fprintf(tw, "  mesh %s[%d]\t%d vertices\t%d indices\tmaterial %s\t%s\n",
					mesh.Name, i, len(p.Vertices), p.NumElements, materialName(m.Materials, p.Material), bounds(p.BoundsMin, p.BoundsMax))
			}
		}
		printMaterials(tw, m.Materials)
	default:
		fmt.Fprintf(tw, "%s\t%T\n", name, a)
	}
}

func printMaterials(w io.Writer, materials []model.Material) {
	for _, mat := range materials {
		if mat.DiffuseTexture == nil {
			fmt.Fprintf(w, "  material %s\tno texture\n", mat.Name)
			continue
		}
		fmt.Fprintf(w, "  material %s\t%dx%d\t%s\n", mat.Name, mat.DiffuseTexture.Width, mat.DiffuseTexture.Height, mat.DiffuseTexture.Label)
	}
}

func materialName(materials []model.Material, i int) string {
	if i < 0 || i >= len(materials) {
		return fmt.Sprintf("#%d", i)
	}
	return materials[i].Name
}

func bounds(lo, hi mgl32.Vec3) string {
	size := hi.Sub(lo)
	_, radius := model.BoundingSphere(lo, hi)
	return fmt.Sprintf("size %.3gx%.3gx%.3g radius %.3g", size.X(), size.Y(), size.Z(), radius)
}
