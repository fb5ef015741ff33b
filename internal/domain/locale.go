package domain

// Supported language codes
const (
	LangSpanish = "es"
	LangEnglish = "en"
)

// Locale represents localized strings for a language
type Locale struct {
	StartMessage     string
	SendVideoMessage string
	LanguageChanged  string
	SelectLanguage   string
	HelpTitle        string
	HelpDescription  string
	HelpUsage        string
	HelpLimits       string
	HelpLanguage     string

	VideoReceived     string
	VideoTooBig       string
	PreviousCancelled string
	Cancelled         string
	Expired           string
	InQueue           string
	InQueuePlural     string

	BtnCompress         string
	BtnCancel           string
	BtnDefault          string
	BtnAdvanced         string
	BtnStartCompression string
	BtnWithThumbnail    string
	BtnNoThumbnail      string
	BtnAsFile           string
	BtnRenameYes        string
	BtnRenameNo         string

	ChooseCompression string
	QualityMenu       string
	ResolutionMenu    string
	ConfirmOptions    string
	StartingDefault   string
	StartingAdvanced  string

	Downloading      string
	Compressing      string
	CompressionDone  string
	ErrorDownload    string
	ErrorCompression string

	ChooseDelivery       string
	AsFileChosen         string
	SendThumbnail        string
	DownloadingThumbnail string
	ThumbnailSaved       string
	ErrorThumbnail       string
	ChooseRename         string
	SendNewName          string
	NameSaved            string
	PreparingUpload      string
	Uploading            string
	ErrorUpload          string
	Completed            string
	CompletedSizes       string

	ProgressDownloading string
	ProgressUploading   string
	ProgressSize        string
	ProgressSpeed       string
	ProgressETA         string
}

// GetLocales returns all available locales
func GetLocales() map[string]*Locale {
	return map[string]*Locale{
		LangSpanish: {
			StartMessage:     "¡Hola! 👋 Soy tu bot para procesar videos.\n\nPuedo comprimir y convertir tus videos. Envíame un video para empezar.",
			SendVideoMessage: "Por favor, envía un archivo de video",
			LanguageChanged:  "✅ Idioma cambiado a español",
			SelectLanguage:   "Elige idioma / Select language:",
			HelpTitle:        "📖 Ayuda",
			HelpDescription:  "Este bot comprime videos y te los devuelve como video o como archivo.",
			HelpUsage:        "📹 Envía un video, elige las opciones de compresión y cómo quieres recibirlo.",
			HelpLimits:       "⚙️ Límites:\n• Tamaño máximo: %d MB\n• Si hay muchos usuarios, entrarás en una cola de espera",
			HelpLanguage:     "🌐 Para cambiar el idioma usa /language",

			VideoReceived:     "Video recibido. ¿Qué quieres hacer?",
			VideoTooBig:       "❌ El video supera el límite de %d MB.",
			PreviousCancelled: "⚠️ Un proceso anterior se ha cancelado para iniciar uno nuevo.",
			Cancelled:         "Operación cancelada.",
			Expired:           "Esta operación ha expirado.",
			InQueue:           "⏳ Estás en la cola, hay %d archivo delante",
			InQueuePlural:     "⏳ Estás en la cola, hay %d archivos delante",

			BtnCompress:         "🗜️ Comprimir Video",
			BtnCancel:           "❌ Cancelar",
			BtnDefault:          "✅ Usar Opciones Recomendadas",
			BtnAdvanced:         "⚙️ Configurar Opciones Avanzadas",
			BtnStartCompression: "✅ Iniciar Compresión",
			BtnWithThumbnail:    "🖼️ Con Miniatura",
			BtnNoThumbnail:      "🚫 Sin Miniatura",
			BtnAsFile:           "📂 Enviar como Archivo",
			BtnRenameYes:        "✏️ Sí, renombrar",
			BtnRenameNo:         "➡️ No, usar original",

			ChooseCompression: "Elige cómo quieres comprimir:",
			QualityMenu:       "1/2: Calidad (CRF)",
			ResolutionMenu:    "2/2: Resolución",
			ConfirmOptions:    "Confirmar opciones:\n- Calidad (CRF): %s\n- Resolución: %sp\n\n¿Estás listo para iniciar la compresión?",
			StartingDefault:   "Iniciando compresión con opciones por defecto...",
			StartingAdvanced:  "Opciones guardadas. Iniciando compresión...",

			Downloading:      "⏳ Descargando video...",
			Compressing:      "🔄 Comprimiendo video...",
			CompressionDone:  "✅ Compresión Exitosa\n\n📏 Original: %s\nAhora, ¿cómo quieres continuar?",
			ErrorDownload:    "❌ Error en la descarga del video.",
			ErrorCompression: "❌ Error al comprimir el video. Operación cancelada.",

			ChooseDelivery:       "¿Cómo quieres enviar el video?",
			AsFileChosen:         "Se enviará como archivo. ¿Quieres añadir una miniatura?",
			SendThumbnail:        "Por favor, envía la imagen para la miniatura.",
			DownloadingThumbnail: "🖼️ Descargando miniatura...",
			ThumbnailSaved:       "Miniatura guardada. ¿Quieres renombrar el video?",
			ErrorThumbnail:       "❌ Error al descargar la miniatura.",
			ChooseRename:         "¿Quieres renombrar el archivo?",
			SendNewName:          "Ok, envíame el nuevo nombre (sin extensión).",
			NameSaved:            "✅ Nombre guardado. Preparando para subir...",
			PreparingUpload:      "Entendido. Preparando para subir...",
			Uploading:            "⬆️ SUBIENDO...",
			ErrorUpload:          "❌ Error durante la subida.",
			Completed:            "✅ ¡Proceso completado!",
			CompletedSizes:       "✅ ¡Proceso completado!\n\nTamaño Original: %s\nTamaño Comprimido: %s",

			ProgressDownloading: "DESCARGANDO...",
			ProgressUploading:   "SUBIENDO...",
			ProgressSize:        "Tamaño",
			ProgressSpeed:       "Velocidad",
			ProgressETA:         "ETA",
		},
		LangEnglish: {
			StartMessage:     "Hi! 👋 I'm your video processing bot.\n\nI can compress and convert your videos. Send me a video to get started.",
			SendVideoMessage: "Please send a video file",
			LanguageChanged:  "✅ Language changed to English",
			SelectLanguage:   "Select language / Elige idioma:",
			HelpTitle:        "📖 Help",
			HelpDescription:  "This bot compresses videos and sends them back as a video or as a file.",
			HelpUsage:        "📹 Send a video, pick the compression options and how you want to receive it.",
			HelpLimits:       "⚙️ Limits:\n• Maximum size: %d MB\n• If there are many users you will wait in a queue",
			HelpLanguage:     "🌐 To change the language use /language",

			VideoReceived:     "Video received. What do you want to do?",
			VideoTooBig:       "❌ The video exceeds the %d MB limit.",
			PreviousCancelled: "⚠️ A previous process was cancelled to start a new one.",
			Cancelled:         "Operation cancelled.",
			Expired:           "This operation has expired.",
			InQueue:           "⏳ You are waiting in queue, %d file ahead",
			InQueuePlural:     "⏳ You are waiting in queue, %d files ahead",

			BtnCompress:         "🗜️ Compress Video",
			BtnCancel:           "❌ Cancel",
			BtnDefault:          "✅ Use Recommended Options",
			BtnAdvanced:         "⚙️ Configure Advanced Options",
			BtnStartCompression: "✅ Start Compression",
			BtnWithThumbnail:    "🖼️ With Thumbnail",
			BtnNoThumbnail:      "🚫 Without Thumbnail",
			BtnAsFile:           "📂 Send as File",
			BtnRenameYes:        "✏️ Yes, rename",
			BtnRenameNo:         "➡️ No, keep original",

			ChooseCompression: "Choose how to compress:",
			QualityMenu:       "1/2: Quality (CRF)",
			ResolutionMenu:    "2/2: Resolution",
			ConfirmOptions:    "Confirm options:\n- Quality (CRF): %s\n- Resolution: %sp\n\nReady to start compressing?",
			StartingDefault:   "Starting compression with default options...",
			StartingAdvanced:  "Options saved. Starting compression...",

			Downloading:      "⏳ Downloading video...",
			Compressing:      "🔄 Compressing video...",
			CompressionDone:  "✅ Compression Successful\n\n📏 Original: %s\nNow, how do you want to continue?",
			ErrorDownload:    "❌ Error downloading the video.",
			ErrorCompression: "❌ Error compressing the video. Operation cancelled.",

			ChooseDelivery:       "How do you want to receive the video?",
			AsFileChosen:         "It will be sent as a file. Do you want to add a thumbnail?",
			SendThumbnail:        "Please send the image for the thumbnail.",
			DownloadingThumbnail: "🖼️ Downloading thumbnail...",
			ThumbnailSaved:       "Thumbnail saved. Do you want to rename the video?",
			ErrorThumbnail:       "❌ Error downloading the thumbnail.",
			ChooseRename:         "Do you want to rename the file?",
			SendNewName:          "Ok, send me the new name (without extension).",
			NameSaved:            "✅ Name saved. Preparing to upload...",
			PreparingUpload:      "Got it. Preparing to upload...",
			Uploading:            "⬆️ UPLOADING...",
			ErrorUpload:          "❌ Error during upload.",
			Completed:            "✅ Process completed!",
			CompletedSizes:       "✅ Process completed!\n\nOriginal Size: %s\nCompressed Size: %s",

			ProgressDownloading: "DOWNLOADING...",
			ProgressUploading:   "UPLOADING...",
			ProgressSize:        "Size",
			ProgressSpeed:       "Speed",
			ProgressETA:         "ETA",
		},
	}
}
