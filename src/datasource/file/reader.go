// reader.go
package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/anrid/xls"
	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// 支持的数据格式
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Loader 从URL或本地文件读取数据表，每次调用 Load 都重新读取
type Loader struct {
	Location  string       // URL 或本地路径
	Encoding  string       // 源文件字符集，空或utf-8表示不转换
	SheetName string       // xlsx 工作表名，空表示第一个
	Client    *http.Client // 下载使用的客户端
}

// NewLoader 创建加载器
func NewLoader(location, encoding, sheetName string, timeout time.Duration) *Loader {
	return &Loader{
		Location:  location,
		Encoding:  encoding,
		SheetName: sheetName,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Load 读取数据源并转换为 DataFrame
func (l *Loader) Load(ctx context.Context) (dataframe.DataFrame, error) {
	data, err := l.fetch(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return ReadTable(data, l.Location, l.Encoding, l.SheetName)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if !isRemote(l.Location) {
		data, err := os.ReadFile(l.Location)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件失败: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载数据失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("下载数据失败: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	return data, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FormatOf 根据文件名或URL路径的扩展名判断格式，未知扩展名按CSV处理
func FormatOf(name string) string {
	p := name
	if u, err := url.Parse(name); err == nil && u.Scheme != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".xlsx":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	default:
		return FormatCSV
	}
}

// ReadTable 按格式解析原始字节
func ReadTable(data []byte, name, encoding, sheetName string) (dataframe.DataFrame, error) {
	switch FormatOf(name) {
	case FormatXLSX:
		return ReadXLSX(data, sheetName)
	case FormatXLS:
		return ReadXLS(data, encoding)
	default:
		return ReadCSV(bytes.NewReader(data), encoding)
	}
}

// ReadCSV 解析CSV，列类型自动推断
func ReadCSV(r io.Reader, encoding string) (dataframe.DataFrame, error) {
	r, err := decodeReader(r, encoding)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("读取CSV失败: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	df := dataframe.ReadCSV(bytes.NewReader(raw), dataframe.WithLazyQuotes(true))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析CSV失败: %w", df.Err)
	}
	return df, nil
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("不支持的字符集 %q: %w", encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ReadXLSX 读取xlsx，第一行为标题行
func ReadXLSX(data []byte, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx open file false: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("工作表 %q 不存在", sheetName)
		}
		sheet = s
	}

	var records [][]string
	for _, row := range sheet.Rows {
		var cells []string
		for _, cell := range row.Cells {
			cells = append(cells, cell.String())
		}
		records = append(records, cells)
	}
	return recordsToDataFrame(records)
}

// ReadXLS 读取旧版xls的第一个工作表
func ReadXLS(data []byte, encoding string) (dataframe.DataFrame, error) {
	if encoding == "" {
		encoding = "utf-8"
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), encoding)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xls open file false: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表")
	}

	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cols []string
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		records = append(records, cols)
	}
	return recordsToDataFrame(records)
}

// recordsToDataFrame 首行为标题，数据行补齐到标题宽度，跳过全空行
func recordsToDataFrame(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet rows wei 0")
	}
	headers := records[0]
	width := len(headers)

	table := [][]string{headers}
	for _, row := range records[1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, width)
		copy(cells, row)
		table = append(table, cells)
	}

	df := dataframe.LoadRecords(table)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("转换为dataframe失败: %w", df.Err)
	}
	return df, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
