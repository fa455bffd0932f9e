package web

import (
	"html/template"
	"io"
)

const introText = `This dashboard presents an analysis of social demographic data across various towns.
The visualizations included aim to provide insights into key metrics such as gender distribution, family sizes,
and the elderly population. These insights are essential for understanding the social structure of the towns and can
support community planning, resource allocation, and policy-making efforts.`

const sourceText = `The dataset contains demographic information for various towns, including gender breakdowns,
average family sizes, and elderly population percentages. The data is crucial for analyzing social patterns and trends within communities.`

// glossaryEntry 数据集列说明
type glossaryEntry struct {
	Name string
	Text string
}

var glossary = []glossaryEntry{
	{"Town", "The name of the town."},
	{"Percentage of Women", "The percentage of women in the town."},
	{"Percentage of Men", "The percentage of men in the town."},
	{"Average Family Size", "The average family size, broken down by categories (1-3 members, 4-6 members, 7 or more members)."},
	{"Percentage of Elderly (65+ years)", "The percentage of elderly people in the town."},
}

// townOption 多选框中的一个城镇
type townOption struct {
	Name     string
	Selected bool
}

// pageData 页面渲染所需的全部数据
type pageData struct {
	Intro      string
	Source     string
	Glossary   []glossaryEntry
	Header     []string
	Rows       [][]string
	SliderMin  int
	SliderMax  int
	SliderStep int
	RowCount   int
	GenderPNG  template.URL
	Towns      []townOption
	FamilyPNG  template.URL
	Sample     []string
	SampleTown string
	Submitted  bool
	PieTown    string
	PiePNG     template.URL
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Social Data Insights and Visualizations</title>
<style>
body { font-family: sans-serif; max-width: 1100px; margin: 2em auto; padding: 0 1em; }
table { border-collapse: collapse; font-size: 0.85em; }
td, th { border: 1px solid #ddd; padding: 4px 8px; text-align: right; }
img { max-width: 100%; }
form { margin: 1em 0; }
</style>
</head>
<body>
<h1>Social Data Insights and Visualizations</h1>

<h2>Introduction</h2>
<p>{{.Intro}}</p>
<p><strong>Data Source:</strong> {{.Source}}</p>

<h2>Dataset Overview</h2>
<p>Here are some summary statistics of the key metrics in the dataset:</p>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>

<p>The dataset includes the following columns:</p>
<ul>
{{range .Glossary}}<li><strong>{{.Name}}</strong>: {{.Text}}</li>
{{end}}</ul>

<p>In the sections below, we will explore two key aspects of the data:</p>
<ol>
<li><strong>Gender Distribution Across Towns</strong>: A bar chart showing the gender breakdown (percentage of men and women) across the towns.</li>
<li><strong>Average Family Size vs. Elderly Population</strong>: A scatter plot analyzing the relationship between average family sizes and the percentage of elderly people in each town.</li>
</ol>

<form method="get" action="/">
<input type="hidden" name="annotate_set" value="1">
<label>Number of towns to display: <strong>{{.RowCount}}</strong><br>
<input type="range" name="towns" min="{{.SliderMin}}" max="{{.SliderMax}}" step="{{.SliderStep}}" value="{{.RowCount}}">
</label>
<p><img src="{{.GenderPNG}}" alt="Gender by Town"></p>

<label>Select towns to annotate on the scatter plot:<br>
<select name="annotate" multiple size="8">
{{range .Towns}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
{{end}}</select>
</label>
<p><button type="submit">Update</button></p>
</form>
<p><img src="{{.FamilyPNG}}" alt="Average Family Size vs. Percentage of Eldelry"></p>

<form method="post" action="/sample">
<p>Select a town to view gender distribution:</p>
<label>Select Town
<select name="town">
{{range .Sample}}<option value="{{.}}"{{if eq . $.SampleTown}} selected{{end}}>{{.}}</option>
{{end}}</select>
</label>
<button type="submit">Show Distribution</button>
</form>
{{if .Submitted}}<p><img src="{{.PiePNG}}" alt="Gender Distribution in {{.PieTown}}"></p>{{end}}
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Social Data Insights and Visualizations</title></head>
<body>
<h1>Social Data Insights and Visualizations</h1>
<p>{{.}}</p>
</body>
</html>
`))

func renderPage(w io.Writer, data pageData) error {
	return pageTemplate.Execute(w, data)
}
