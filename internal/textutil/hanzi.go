package textutil

import "strings"

// hanPairs maps traditional Han characters to their simplified forms. The
// table covers the characters that actually appear in comic titles and
// volume labels from the supported sites; it is not a general-purpose
// converter. Every entry maps a distinct traditional character to a
// different simplified one; characters shared by both scripts stay out.
var hanPairs = [][2]rune{
	{'萬', '万'}, {'與', '与'}, {'醜', '丑'}, {'專', '专'}, {'業', '业'},
	{'叢', '丛'}, {'東', '东'}, {'絲', '丝'}, {'兩', '两'}, {'嚴', '严'},
	{'喪', '丧'}, {'個', '个'}, {'豐', '丰'}, {'臨', '临'}, {'為', '为'},
	{'舉', '举'}, {'義', '义'}, {'樂', '乐'}, {'習', '习'}, {'鄉', '乡'},
	{'書', '书'}, {'買', '买'}, {'亂', '乱'}, {'爭', '争'}, {'於', '于'},
	{'虧', '亏'}, {'雲', '云'}, {'亞', '亚'}, {'產', '产'}, {'親', '亲'},
	{'億', '亿'}, {'僅', '仅'}, {'從', '从'}, {'倫', '伦'}, {'倉', '仓'},
	{'儀', '仪'}, {'們', '们'}, {'價', '价'}, {'眾', '众'}, {'優', '优'},
	{'會', '会'}, {'傳', '传'}, {'傷', '伤'}, {'倀', '伥'}, {'體', '体'},
	{'餘', '余'}, {'傭', '佣'}, {'僉', '佥'}, {'俠', '侠'}, {'側', '侧'},
	{'僑', '侨'}, {'儈', '侩'}, {'儕', '侪'}, {'儂', '侬'}, {'俁', '俣'},
	{'儔', '俦'}, {'儼', '俨'}, {'倆', '俩'}, {'儷', '俪'}, {'儉', '俭'},
	{'債', '债'}, {'傾', '倾'}, {'傯', '偬'}, {'僂', '偻'}, {'賃', '赁'},
	{'傑', '杰'}, {'備', '备'}, {'傘', '伞'}, {'戰', '战'}, {'鬥', '斗'},
	{'無', '无'}, {'龍', '龙'}, {'貓', '猫'}, {'島', '岛'}, {'靈', '灵'},
	{'夢', '梦'}, {'風', '风'}, {'飛', '飞'}, {'馬', '马'}, {'鳥', '鸟'},
	{'魚', '鱼'}, {'紅', '红'}, {'綠', '绿'}, {'藍', '蓝'}, {'學', '学'},
	{'園', '园'}, {'國', '国'}, {'圖', '图'}, {'聖', '圣'}, {'劍', '剑'},
	{'樣', '样'}, {'機', '机'}, {'話', '话'}, {'說', '说'}, {'語', '语'},
	{'誰', '谁'}, {'請', '请'}, {'讀', '读'}, {'諸', '诸'}, {'誕', '诞'},
	{'課', '课'}, {'調', '调'}, {'談', '谈'}, {'謎', '谜'}, {'戀', '恋'},
	{'愛', '爱'}, {'慾', '欲'}, {'憶', '忆'}, {'應', '应'}, {'懷', '怀'},
	{'態', '态'}, {'總', '总'}, {'單', '单'}, {'雙', '双'}, {'發', '发'},
	{'變', '变'}, {'隻', '只'}, {'號', '号'}, {'後', '后'}, {'幾', '几'},
	{'捲', '卷'}, {'卻', '却'}, {'歷', '历'}, {'壓', '压'}, {'廳', '厅'},
	{'縣', '县'}, {'蔘', '参'}, {'雞', '鸡'}, {'難', '难'}, {'電', '电'},
	{'當', '当'}, {'錄', '录'}, {'時', '时'}, {'晝', '昼'}, {'顯', '显'},
	{'曉', '晓'}, {'暈', '晕'}, {'術', '术'}, {'樹', '树'}, {'橋', '桥'},
	{'檢', '检'}, {'極', '极'}, {'構', '构'}, {'槍', '枪'}, {'樓', '楼'},
	{'標', '标'}, {'榮', '荣'}, {'歲', '岁'}, {'歸', '归'}, {'殘', '残'},
	{'殺', '杀'}, {'毆', '殴'}, {'氣', '气'}, {'漢', '汉'}, {'滿', '满'},
	{'濱', '滨'}, {'潛', '潜'}, {'澤', '泽'}, {'濃', '浓'}, {'測', '测'},
	{'淺', '浅'}, {'濟', '济'}, {'渾', '浑'}, {'滅', '灭'}, {'燈', '灯'},
	{'爛', '烂'}, {'煙', '烟'}, {'熱', '热'}, {'爺', '爷'}, {'牆', '墙'},
	{'獨', '独'}, {'獄', '狱'}, {'獵', '猎'}, {'獸', '兽'}, {'現', '现'},
	{'環', '环'}, {'璽', '玺'}, {'瓊', '琼'}, {'畢', '毕'}, {'異', '异'},
	{'瘋', '疯'}, {'癡', '痴'}, {'眞', '真'}, {'礦', '矿'}, {'碼', '码'},
	{'禮', '礼'}, {'禍', '祸'}, {'種', '种'}, {'稱', '称'}, {'竊', '窃'},
	{'筆', '笔'}, {'筍', '笋'}, {'簡', '简'}, {'籃', '篮'}, {'類', '类'},
	{'約', '约'}, {'級', '级'}, {'紀', '纪'}, {'純', '纯'}, {'紙', '纸'},
	{'紋', '纹'}, {'細', '细'}, {'終', '终'}, {'結', '结'}, {'統', '统'},
	{'絕', '绝'}, {'經', '经'}, {'維', '维'}, {'緣', '缘'}, {'編', '编'},
	{'續', '续'}, {'聞', '闻'}, {'聯', '联'}, {'聽', '听'}, {'職', '职'},
	{'臉', '脸'}, {'腦', '脑'}, {'膽', '胆'}, {'臟', '脏'}, {'艦', '舰'},
	{'艷', '艳'}, {'節', '节'}, {'薔', '蔷'}, {'薦', '荐'}, {'藝', '艺'},
	{'藥', '药'}, {'蘭', '兰'}, {'處', '处'}, {'蟲', '虫'}, {'蟬', '蝉'},
	{'衛', '卫'}, {'見', '见'}, {'觀', '观'}, {'覺', '觉'}, {'覽', '览'},
	{'計', '计'}, {'訂', '订'}, {'記', '记'}, {'訓', '训'}, {'議', '议'},
	{'譯', '译'}, {'貝', '贝'}, {'負', '负'}, {'財', '财'}, {'責', '责'},
	{'賢', '贤'}, {'賣', '卖'}, {'賊', '贼'}, {'贈', '赠'}, {'趙', '赵'},
	{'車', '车'}, {'軍', '军'}, {'軌', '轨'}, {'轉', '转'}, {'輪', '轮'},
	{'輕', '轻'}, {'辭', '辞'}, {'邊', '边'}, {'達', '达'}, {'遲', '迟'},
	{'遠', '远'}, {'適', '适'}, {'選', '选'}, {'還', '还'}, {'鄰', '邻'},
	{'醫', '医'}, {'釋', '释'}, {'裏', '里'}, {'針', '针'}, {'鋼', '钢'},
	{'錢', '钱'}, {'鐵', '铁'}, {'銀', '银'}, {'鎖', '锁'}, {'長', '长'},
	{'門', '门'}, {'閃', '闪'}, {'閉', '闭'}, {'開', '开'}, {'間', '间'},
	{'閱', '阅'}, {'陣', '阵'}, {'陰', '阴'}, {'陽', '阳'}, {'隊', '队'},
	{'際', '际'}, {'隱', '隐'}, {'雜', '杂'}, {'離', '离'}, {'靜', '静'},
	{'韓', '韩'}, {'頁', '页'}, {'頂', '顶'}, {'項', '项'}, {'順', '顺'},
	{'頭', '头'}, {'題', '题'}, {'顏', '颜'}, {'願', '愿'}, {'飯', '饭'},
	{'飲', '饮'}, {'餓', '饿'}, {'館', '馆'}, {'驚', '惊'}, {'驗', '验'},
	{'騎', '骑'}, {'騷', '骚'}, {'鮮', '鲜'}, {'麗', '丽'}, {'黃', '黄'},
	{'點', '点'}, {'黨', '党'}, {'齊', '齐'}, {'齒', '齿'}, {'龜', '龟'},
	{'進', '进'}, {'擊', '击'}, {'動', '动'}, {'勢', '势'}, {'運', '运'},
	{'連', '连'}, {'週', '周'}, {'遊', '游'}, {'戲', '戏'}, {'劇', '剧'},
	{'場', '场'}, {'報', '报'}, {'師', '师'}, {'帶', '带'}, {'幫', '帮'},
	{'庫', '库'}, {'廢', '废'}, {'彈', '弹'}, {'強', '强'}, {'復', '复'},
	{'徹', '彻'}, {'惡', '恶'}, {'憂', '忧'}, {'戶', '户'}, {'執', '执'},
	{'擴', '扩'}, {'據', '据'}, {'擇', '择'}, {'攜', '携'}, {'敗', '败'},
	{'數', '数'}, {'斷', '断'}, {'舊', '旧'}, {'曆', '历'}, {'朧', '胧'},
	{'條', '条'}, {'來', '来'}, {'殼', '壳'}, {'冊', '册'}, {'決', '决'},
	{'況', '况'}, {'涼', '凉'}, {'淚', '泪'}, {'溝', '沟'}, {'瀨', '濑'},
	{'灣', '湾'}, {'燒', '烧'}, {'爍', '烁'}, {'狀', '状'}, {'貳', '贰'},
	{'瑪', '玛'}, {'甌', '瓯'}, {'畫', '画'}, {'疊', '叠'}, {'盡', '尽'},
	{'監', '监'}, {'盤', '盘'}, {'確', '确'}, {'祕', '秘'}, {'積', '积'},
	{'窮', '穷'}, {'競', '竞'}, {'線', '线'}, {'縛', '缚'}, {'縫', '缝'},
	{'纖', '纤'}, {'罰', '罚'}, {'羅', '罗'}, {'聲', '声'}, {'膚', '肤'},
	{'興', '兴'}, {'虛', '虚'}, {'裝', '装'}, {'裡', '里'}, {'訊', '讯'},
	{'設', '设'}, {'試', '试'}, {'詳', '详'}, {'誘', '诱'}, {'論', '论'},
	{'謊', '谎'}, {'謝', '谢'}, {'證', '证'}, {'譚', '谭'}, {'護', '护'},
	{'貴', '贵'}, {'賭', '赌'}, {'輝', '辉'}, {'辦', '办'}, {'農', '农'},
	{'迴', '回'}, {'遞', '递'}, {'遷', '迁'}, {'鄭', '郑'}, {'釘', '钉'},
	{'鈴', '铃'}, {'鉛', '铅'}, {'銃', '铳'}, {'鋭', '锐'}, {'錯', '错'},
	{'鍵', '键'}, {'鎮', '镇'}, {'鏡', '镜'}, {'鐘', '钟'}, {'闇', '暗'},
	{'階', '阶'}, {'隨', '随'}, {'險', '险'}, {'靂', '雳'}, {'須', '须'},
	{'頑', '顽'}, {'頻', '频'}, {'顛', '颠'}, {'餅', '饼'}, {'駕', '驾'},
	{'髮', '发'}, {'鳳', '凤'}, {'鴉', '鸦'}, {'鷹', '鹰'}, {'麵', '面'},
}

var (
	tradToSimp = func() map[rune]rune {
		m := make(map[rune]rune, len(hanPairs))
		for _, p := range hanPairs {
			m[p[0]] = p[1]
		}
		return m
	}()

	// First traditional form wins when several map to one simplified char.
	simpToTrad = func() map[rune]rune {
		m := make(map[rune]rune, len(hanPairs))
		for _, p := range hanPairs {
			if _, ok := m[p[1]]; !ok {
				m[p[1]] = p[0]
			}
		}
		return m
	}()
)

func mapRunes(value string, table map[rune]rune) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if mapped, ok := table[r]; ok {
			r = mapped
		}
		b.WriteRune(r)
	}
	return b.String()
}

func foldHan(value string) string      { return mapRunes(value, tradToSimp) }
func toSimplified(value string) string { return mapRunes(value, tradToSimp) }
func toTraditional(value string) string {
	return mapRunes(value, simpToTrad)
}
