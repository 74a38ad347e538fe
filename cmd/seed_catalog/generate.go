package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedNamespace hace que los IDs generados sean estables entre ejecuciones.
var seedNamespace = uuid.MustParse("6f1c2a3e-5b7d-4e8f-9a0b-1c2d3e4f5a6b")

const (
	maxNombreProducto  = 150
	maxNombreCategoria = 100
	maxStockMinimo     = 1000000
)

var maxPrecio = decimal.RequireFromString("99999999.99")

type seedRow struct {
	nombre      string
	descripcion string
	precio      decimal.Decimal
	stockMinimo int
	categoria   string
}

type seedStats struct {
	categories int
	products   int
	skipped    int
}

// generate lee el CSV en ISO-8859-1 y escribe SQL idempotente (ON CONFLICT DO NOTHING).
// Las filas inválidas y los productos repetidos (sin distinguir mayúsculas) se omiten y se cuentan.
// Las categorías que difieren solo en mayúsculas se unifican con la primera grafía leída.
func generate(r io.Reader, w io.Writer) (seedStats, error) {
	var stats seedStats
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("CSV vacío")
		}
		return stats, fmt.Errorf("leer cabecera: %w", err)
	}

	var rows []seedRow
	categories := make(map[string]string) // clave normalizada -> grafía
	products := make(map[string]struct{})
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("leer fila: %w", err)
		}
		row, ok := parseRow(rec)
		if !ok {
			stats.skipped++
			continue
		}
		pk := seedKey(row.nombre)
		if _, dup := products[pk]; dup {
			stats.skipped++
			continue
		}
		products[pk] = struct{}{}
		ck := seedKey(row.categoria)
		if name, ok := categories[ck]; ok {
			row.categoria = name
		} else {
			categories[ck] = row.categoria
		}
		rows = append(rows, row)
	}

	// Categorías ordenadas para salida estable
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)

	fmt.Fprint(w, "-- Catálogo inicial de categorías y productos\n")
	fmt.Fprint(w, "-- Generado por cmd/seed_catalog\n\n")

	if len(names) > 0 {
		fmt.Fprint(w, "-- 1. Categorías\n")
		fmt.Fprint(w, "INSERT INTO categorias (id, nombre) VALUES\n")
		for i, name := range names {
			sep := ","
			if i == len(names)-1 {
				sep = ""
			}
			fmt.Fprintf(w, "  ('%s', '%s')%s\n", stableID("categoria", name), escapeSQL(name), sep)
		}
		fmt.Fprint(w, "ON CONFLICT DO NOTHING;\n\n")
	}

	fmt.Fprint(w, "-- 2. Productos (stock_actual = 0)\n")
	for _, row := range rows {
		fmt.Fprint(w, "INSERT INTO productos (id, nombre, descripcion, precio, stock_minimo, categoria_id)\n")
		fmt.Fprintf(w, "SELECT '%s', '%s', '%s', %s, %d, id FROM categorias WHERE lower(nombre) = lower('%s') LIMIT 1\n",
			stableID("producto", row.nombre), escapeSQL(row.nombre), escapeSQL(row.descripcion),
			row.precio.StringFixed(2), row.stockMinimo, escapeSQL(row.categoria))
		fmt.Fprint(w, "ON CONFLICT DO NOTHING;\n")
	}

	stats.categories = len(names)
	stats.products = len(rows)
	return stats, nil
}

func parseRow(rec []string) (seedRow, bool) {
	if len(rec) < 5 {
		return seedRow{}, false
	}
	row := seedRow{
		nombre:      strings.TrimSpace(rec[0]),
		descripcion: strings.TrimSpace(rec[1]),
		categoria:   strings.TrimSpace(rec[4]),
	}
	if row.nombre == "" || utf8.RuneCountInString(row.nombre) > maxNombreProducto {
		return seedRow{}, false
	}
	if row.categoria == "" || utf8.RuneCountInString(row.categoria) > maxNombreCategoria {
		return seedRow{}, false
	}
	// Las hojas en español usan coma decimal
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
	// NUMERIC(10,2): más de dos decimales es un precio inválido, no se redondea
	if err != nil || price.IsNegative() || price.GreaterThan(maxPrecio) || !price.Equal(price.Truncate(2)) {
		return seedRow{}, false
	}
	row.precio = price
	minimo, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil || minimo < 0 || minimo > maxStockMinimo {
		return seedRow{}, false
	}
	row.stockMinimo = minimo
	return row, true
}

// seedKey clave de deduplicación; la misma que usa stableID.
func seedKey(name string) string {
	return strings.ToLower(name)
}

func stableID(kind, name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+seedKey(name))).String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
