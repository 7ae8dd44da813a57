package i18n

// zhCN follows the amis zh-CN locale.
var zhCN = Table{
	"equals":         "输入的数据与 $1 不一致",
	"equalsField":    "输入的数据与 $1 值不一致",
	"gt":             "请输入大于 $1 的值",
	"isAlpha":        "请输入字母",
	"isAlphanumeric": "请输入字母或者数字",
	"isEmail":        "Email 格式不正确",
	"isFloat":        "请输入浮点型数值",
	"isId":           "请输入合法的身份证号",
	"isInt":          "请输入整型数字",
	"isJson":         "JSON 格式不正确",
	"isLength":       "请输入长度为 $1 的内容",
	"isNumeric":      "请输入数字",
	"isPhoneNumber":  "请输入合法的手机号码",
	"isRequired":     "这是必填项",
	"isTelNumber":    "请输入合法的电话号码",
	"isUrl":          "URL 格式不正确",
	"isUrlPath":      "只能输入字母、数字、`-` 和 `_`.",
	"isWords":        "请输入单词",
	"isSpecialWords": "请输入单词",
	"isZipcode":      "请输入合法的邮编地址",
	"isExisty":       "不存在这个值",
	"lt":             "请输入小于 $1 的值",
	"matchRegexp":    "格式不正确, 请输入符合规则为 $1 的内容",
	"maximum":        "当前输入值超出最大值 $1",
	"maxLength":      "请控制内容长度, 不要输入 $1 个以上字符",
	"minimum":        "当前输入值低于最小值 $1",
	"minLength":      "请输入更多的内容，至少输入 $1 个字符",
	"notEmptyString": "请不要全输入空白字符",
	"isTrue":         "请选中此项",
	"isFalse":        "请取消选中此项",
	"isEmptyString":  "请不要输入内容",
	"isUndefined":    "该值必须为空",
}

// enUS follows the amis en-US locale.
var enUS = Table{
	"equals":         "The input data is inconsistent with $1",
	"equalsField":    "The input data is inconsistent with the value of $1",
	"gt":             "Please enter a value greater than $1",
	"isAlpha":        "Please enter letters",
	"isAlphanumeric": "Please enter letters or numbers",
	"isEmail":        "Email format error",
	"isFloat":        "Please enter a floating-point value",
	"isId":           "Please enter a valid ID number",
	"isInt":          "Please enter an integer",
	"isJson":         "JSON format error",
	"isLength":       "Please enter content of length $1",
	"isNumeric":      "Please enter a number",
	"isPhoneNumber":  "Please enter a valid mobile phone number",
	"isRequired":     "This is required",
	"isTelNumber":    "Please enter a valid telephone number",
	"isUrl":          "URL format error",
	"isUrlPath":      "You can only enter letters, numbers, `-` and `_`.",
	"isWords":        "Please enter words",
	"isSpecialWords": "Please enter words",
	"isZipcode":      "Please enter a valid zip code",
	"isExisty":       "This value does not exist",
	"lt":             "Please enter a value less than $1",
	"matchRegexp":    "Format error. Please enter content matching $1",
	"maximum":        "The input value exceeds the maximum value of $1",
	"maxLength":      "Please do not enter more than $1 characters",
	"minimum":        "The input value is lower than the minimum value of $1",
	"minLength":      "Please enter more content, at least $1 characters",
	"notEmptyString": "Please do not enter only blank characters",
	"isTrue":         "Please check this item",
	"isFalse":        "Please uncheck this item",
	"isEmptyString":  "Please leave this empty",
	"isUndefined":    "This value must be empty",
}
