// seed_catalog genera un script SQL para poblar categorías y productos a partir de un
// CSV exportado de hoja de cálculo (separador ';', codificación ISO-8859-1).
//
// Columnas: nombre;descripcion;precio;stock_minimo;categoria
// La primera fila es cabecera. Los productos se crean con stock 0: el stock
// inicial se registra después como ENTRADA desde la API.
//
// Uso: go run ./cmd/seed_catalog catalogo.csv [salida.sql]
// Por defecto escribe seed_catalog.sql en la raíz del módulo.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog catalogo.csv [salida.sql]")
		os.Exit(2)
	}
	in, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	outPath := filepath.Join(findModuleRoot(), "seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	stats, err := generate(in, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos, %d filas omitidas\n",
		outPath, stats.categories, stats.products, stats.skipped)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
